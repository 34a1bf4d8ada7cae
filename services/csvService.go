// backend/services/csvService.go
package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Cabeçalhos reconhecidos no CSV de intimações, já na forma normalizada
// (sem acentos). Os arquivos chegam do tribunal em latin1 com separador
// ponto e vírgula.
const (
	headerNumero  = "Numero do processo"
	headerPrazo   = "Prazo processual"
	headerClasse  = "Classe principal"
	headerAssunto = "Assunto principal"
	headerTarjas  = "Tarjas"
	headerData    = "Data da intimacao"
)

// ProcessRow é uma linha do CSV já extraída e aparada. DataIntimacao fica
// nula quando a data da linha não pôde ser interpretada.
type ProcessRow struct {
	NumeroProcesso   string
	PrazoProcessual  string
	ClassePrincipal  string
	AssuntoPrincipal string
	Tarjas           string
	DataIntimacao    *time.Time
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeHeader remove diacríticos por decomposição canônica, troca o
// caractere de substituição (artefato de reencodificação) por "u" e apara
// espaços, casando cabeçalhos independentemente de acentuação.
func NormalizeHeader(h string) string {
	out, _, err := transform.String(stripAccents, h)
	if err != nil {
		out = h
	}
	out = strings.ReplaceAll(out, "�", "u")
	return strings.TrimSpace(out)
}

// ParseBrazilianDate interpreta datas no formato dd/mm/aaaa. Qualquer
// desvio (componentes a mais, não numéricos, data inexistente) devolve
// nil em vez de erro: a linha segue sem data de intimação.
func ParseBrazilianDate(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil
	}
	day, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	month, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	year, err3 := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err1 != nil || err2 != nil || err3 != nil {
		return nil
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// Rejeita datas que o time.Date normalizou (ex.: 32/01 vira 01/02).
	if t.Year() != year || t.Month() != time.Month(month) || t.Day() != day {
		return nil
	}
	return &t
}

// ReadProcessRows decodifica o CSV (latin1 → UTF-8, separador ";") e
// extrai as linhas válidas. Linhas sem número de processo são descartadas
// silenciosamente; uma falha de leitura aborta a importação inteira.
func ReadProcessRows(r io.Reader) ([]ProcessRow, error) {
	cr := csv.NewReader(transform.NewReader(r, charmap.ISO8859_1.NewDecoder()))
	cr.Comma = ';'
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("falha ao ler o cabeçalho do CSV: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[NormalizeHeader(h)] = i
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var rows []ProcessRow
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("falha ao ler o arquivo CSV: %w", err)
		}

		numero := field(record, headerNumero)
		if numero == "" {
			continue
		}
		rows = append(rows, ProcessRow{
			NumeroProcesso:   numero,
			PrazoProcessual:  field(record, headerPrazo),
			ClassePrincipal:  field(record, headerClasse),
			AssuntoPrincipal: field(record, headerAssunto),
			Tarjas:           field(record, headerTarjas),
			DataIntimacao:    ParseBrazilianDate(field(record, headerData)),
		})
	}
	return rows, nil
}
