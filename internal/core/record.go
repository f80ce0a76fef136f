package core

import (
	"encoding/json"
	"fmt"
)

type (
	// Record is the single serialized form of a ledger.
	Record struct {
		Templates  []TemplateRecord `json:"templates"`
		Exceptions []string         `json:"exceptions"`
	}

	TemplateRecord struct {
		ID          string      `json:"id"`
		Name        string      `json:"name"`
		AmountCents int64       `json:"amount_cents"`
		Kind        Kind        `json:"kind"`
		Periodicity Periodicity `json:"periodicity"`
		Category    string      `json:"category"`
		OriginDate  string      `json:"origin_date"`
		StopDate    *string     `json:"stop_date"`
	}
)

// ToRecord snapshots the ledger into its persisted form.
func (l *Ledger) ToRecord() Record {
	rec := Record{
		Templates:  make([]TemplateRecord, 0, len(l.Templates)),
		Exceptions: l.Exceptions.Keys(),
	}
	for _, t := range l.Templates {
		tr := TemplateRecord{
			ID:          t.ID,
			Name:        t.Name,
			AmountCents: t.Amount.Cents,
			Kind:        t.Kind,
			Periodicity: t.Periodicity,
			Category:    t.Category,
			OriginDate:  t.OriginDate.Key(),
		}
		if t.HasStop() {
			stop := t.StopDate.Key()
			tr.StopDate = &stop
		}
		rec.Templates = append(rec.Templates, tr)
	}
	return rec
}

// Ledger rebuilds the in-memory ledger from the record.
func (r Record) Ledger() (*Ledger, error) {
	l := NewLedger()
	for i, tr := range r.Templates {
		origin, err := ParseDate(tr.OriginDate)
		if err != nil {
			return nil, fmt.Errorf("template %d (%s): origin date: %w", i, tr.ID, err)
		}
		t := Template{
			ID:          tr.ID,
			Name:        tr.Name,
			Amount:      Money{Cents: tr.AmountCents},
			Kind:        tr.Kind,
			Periodicity: tr.Periodicity,
			Category:    tr.Category,
			OriginDate:  origin,
		}
		if tr.StopDate != nil {
			stop, err := ParseDate(*tr.StopDate)
			if err != nil {
				return nil, fmt.Errorf("template %d (%s): stop date: %w", i, tr.ID, err)
			}
			t.StopDate = stop
		}
		l.Add(t)
	}
	for _, k := range r.Exceptions {
		e, err := ParseExceptionKey(k)
		if err != nil {
			return nil, err
		}
		l.Exceptions.Add(e)
	}
	return l, nil
}

// MarshalRecord encodes the record as JSON.
func MarshalRecord(r Record) ([]byte, error) {
	return json.Marshal(r)
}

// UnmarshalRecord decodes a JSON record.
func UnmarshalRecord(data []byte) (Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return Record{}, fmt.Errorf("decode ledger record: %w", err)
	}
	return r, nil
}
