// backend/query/filter.go
package query

import (
	"strings"

	"gorm.io/gorm"
)

// Cond é a representação intermediária de um filtro sobre processos.
// As condições são montadas pelo builder e só viram SQL na hora de
// executar a consulta, o que permite reutilizar o mesmo filtro para
// listagem, contagens e agrupamentos.
type Cond interface {
	isCond()
}

// Eq compara uma coluna com um valor exato.
type Eq struct {
	Col string
	Val any
}

// In aceita qualquer valor do conjunto.
type In struct {
	Col  string
	Vals []any
}

// Like faz busca por substring (LIKE %sub%).
type Like struct {
	Col string
	Sub string
}

// Range limita uma coluna a um intervalo; Min e Max são opcionais (nil).
type Range struct {
	Col string
	Min any
	Max any
}

// Null verifica nulidade da coluna; Not inverte para IS NOT NULL.
type Null struct {
	Col string
	Not bool
}

// Or combina condições com OU lógico.
type Or struct {
	Conds []Cond
}

// And combina condições com E lógico. Um And vazio não restringe nada.
type And struct {
	Conds []Cond
}

// Expr é um fragmento SQL calculado, usado para comparações sobre o
// vencimento derivado (data_intimacao + prazo_processual dias).
type Expr struct {
	SQL  string
	Args []any
}

func (Eq) isCond()    {}
func (In) isCond()    {}
func (Like) isCond()  {}
func (Range) isCond() {}
func (Null) isCond()  {}
func (Or) isCond()    {}
func (And) isCond()   {}
func (Expr) isCond()  {}

// SQL renderiza a condição como fragmento de WHERE com placeholders "?".
func SQL(c Cond) (string, []any) {
	switch v := c.(type) {
	case Eq:
		return v.Col + " = ?", []any{v.Val}
	case In:
		return v.Col + " IN ?", []any{v.Vals}
	case Like:
		return v.Col + " LIKE ?", []any{"%" + v.Sub + "%"}
	case Range:
		switch {
		case v.Min != nil && v.Max != nil:
			return v.Col + " BETWEEN ? AND ?", []any{v.Min, v.Max}
		case v.Min != nil:
			return v.Col + " >= ?", []any{v.Min}
		case v.Max != nil:
			return v.Col + " <= ?", []any{v.Max}
		}
		return "1 = 1", nil
	case Null:
		if v.Not {
			return v.Col + " IS NOT NULL", nil
		}
		return v.Col + " IS NULL", nil
	case Or:
		return join(v.Conds, " OR ")
	case And:
		return join(v.Conds, " AND ")
	case Expr:
		return v.SQL, v.Args
	}
	return "1 = 1", nil
}

func join(conds []Cond, sep string) (string, []any) {
	if len(conds) == 0 {
		return "1 = 1", nil
	}
	if len(conds) == 1 {
		return SQL(conds[0])
	}
	parts := make([]string, 0, len(conds))
	var args []any
	for _, c := range conds {
		s, a := SQL(c)
		parts = append(parts, s)
		args = append(args, a...)
	}
	return "(" + strings.Join(parts, sep) + ")", args
}

// Apply anexa a condição a uma consulta GORM em andamento.
func Apply(db *gorm.DB, c Cond) *gorm.DB {
	s, args := SQL(c)
	return db.Where(s, args...)
}
