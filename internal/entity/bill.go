package entity

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

const DefaultPct = 20

type BillStatus string

const (
	BillStatusPending  BillStatus = "pending"
	BillStatusAccepted BillStatus = "accepted"
	BillStatusRefused  BillStatus = "refused"
)

func (s BillStatus) IsValid() bool {
	switch s {
	case BillStatusPending, BillStatusAccepted, BillStatusRefused:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether an admin decision may move a bill from s to next.
// Only pending bills can be decided and a decision is final.
func (s BillStatus) CanTransitionTo(next BillStatus) bool {
	return s == BillStatusPending && (next == BillStatusAccepted || next == BillStatusRefused)
}

func (s BillStatus) Label() string {
	switch s {
	case BillStatusPending:
		return "En attente"
	case BillStatusAccepted:
		return "Accepté"
	case BillStatusRefused:
		return "Refusé"
	default:
		return string(s)
	}
}

type Bill struct {
	ID           string     `json:"id"`
	Email        string     `json:"email"`
	Type         string     `json:"type"`
	Name         string     `json:"name"`
	Amount       int        `json:"amount"`
	Date         string     `json:"date"`
	VAT          VAT        `json:"vat"`
	Pct          Percent    `json:"pct"`
	Commentary   string     `json:"commentary"`
	FileURL      string     `json:"fileUrl"`
	FileName     string     `json:"fileName"`
	Status       BillStatus `json:"status"`
	CommentAdmin string     `json:"commentAdmin,omitempty"`
}

func (b *Bill) UnmarshalJSON(data []byte) error {
	type alias Bill

	a := alias{Pct: DefaultPct}

	err := json.Unmarshal(data, &a)
	if err != nil {
		return err
	}

	*b = Bill(a)

	return nil
}

// VAT is stored as text but the store may hand it back as a JSON number.
type VAT string

func (v *VAT) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case bytes.Equal(data, []byte("null")):
		*v = ""
	case len(data) > 0 && data[0] == '"':
		var s string

		err := json.Unmarshal(data, &s)
		if err != nil {
			return err
		}

		*v = VAT(s)
	default:
		*v = VAT(data)
	}

	return nil
}

// Percent falls back to DefaultPct for null or non-numeric values.
type Percent int

func (p *Percent) UnmarshalJSON(data []byte) error {
	var n json.Number

	err := json.Unmarshal(data, &n)
	if err != nil || n == "" {
		*p = DefaultPct
		return nil //nolint:nilerr
	}

	i, err := n.Int64()
	if err != nil {
		*p = DefaultPct
		return nil //nolint:nilerr
	}

	*p = Percent(i)

	return nil
}

type BillView struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	Type         string  `json:"type"`
	Name         string  `json:"name"`
	Amount       int     `json:"amount"`
	Date         string  `json:"date"`
	RawDate      string  `json:"rawDate"`
	VAT          VAT     `json:"vat"`
	Pct          Percent `json:"pct"`
	Commentary   string  `json:"commentary"`
	FileURL      string  `json:"fileUrl"`
	FileName     string  `json:"fileName"`
	Status       string  `json:"status"`
	StatusCode   string  `json:"statusCode"`
	CommentAdmin string  `json:"commentAdmin,omitempty"`
}

type Preview struct {
	BillID      string `json:"billId"`
	FileURL     string `json:"fileUrl,omitempty"`
	FileName    string `json:"fileName,omitempty"`
	Placeholder bool   `json:"placeholder"`
}

type Review struct {
	BillID       string     `json:"billId"`
	Status       BillStatus `json:"status"`
	CommentAdmin string     `json:"commentAdmin"`
}

var ExpenseTypes = []string{
	"Transports",
	"Restaurants et bars",
	"Hôtel et logement",
	"Services en ligne",
	"IT et électronique",
	"Equipement et matériel",
	"Fournitures de bureau",
}

var allowedReceiptExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
}

type ReceiptFile struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f ReceiptFile) Ext() string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(f.Name), "."))
}

func (f ReceiptFile) HasAllowedExtension() bool {
	_, ok := allowedReceiptExtensions[f.Ext()]
	return ok
}

type UploadRequest struct {
	Email string
	File  ReceiptFile
}

type UploadResult struct {
	ID       string `json:"id"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
	Key      string `json:"key"`
}

// BillID prefers the record id and falls back to the storage key.
func (r UploadResult) BillID() string {
	if r.ID != "" {
		return r.ID
	}

	return r.Key
}

type Draft struct {
	BillID   string `json:"billId"`
	FileURL  string `json:"fileUrl"`
	FileName string `json:"fileName"`
}

type FormValues struct {
	Type       string `json:"type"`
	Name       string `json:"name"`
	Amount     string `json:"amount"`
	Date       string `json:"date"`
	VAT        string `json:"vat"`
	Pct        string `json:"pct"`
	Commentary string `json:"commentary"`
}

type BillFilter struct {
	Email string
}
