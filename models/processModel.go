// backend/models/processModel.go
package models

import "time"

// Process é um processo judicial acompanhado pelo sistema, identificado
// pelo número do processo (chave natural única).
//
// DataIntimacao guarda apenas a data (sem hora); o prazo processual é um
// deslocamento em dias armazenado como texto, somado à data de intimação
// para obter o vencimento.
type Process struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	NumeroProcesso   string     `gorm:"column:numero_processo;size:50;uniqueIndex;not null" json:"numero_processo"`
	PrazoProcessual  string     `gorm:"column:prazo_processual;size:20;not null;default:''" json:"prazo_processual"`
	ClassePrincipal  string     `gorm:"column:classe_principal;size:255" json:"classe_principal"`
	AssuntoPrincipal string     `gorm:"column:assunto_principal;size:255" json:"assunto_principal"`
	Tarjas           string     `gorm:"size:255" json:"tarjas"`
	DataIntimacao    *time.Time `gorm:"column:data_intimacao;type:date" json:"data_intimacao"`
	Cumprido         bool       `gorm:"not null;default:false" json:"cumprido"`
	Reiteracoes      int        `gorm:"not null;default:0" json:"reiteracoes"`
	CumpridoDate     *time.Time `gorm:"column:cumpridoDate" json:"cumpridoDate"`
	Observacoes      string     `gorm:"size:100;not null;default:''" json:"observacoes"`
	UserID           *uint      `gorm:"column:userId" json:"userId"`
	User             *User      `gorm:"foreignKey:UserID" json:"User,omitempty"`
}

func (Process) TableName() string { return "processos" }
