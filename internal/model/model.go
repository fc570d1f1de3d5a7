package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// DateLayout is the purchase timestamp format used on disk. It matches the
// data files produced by earlier deployments and must not change.
const DateLayout = "02/01/2006 15:04"

type UserAccount struct {
	Tokens int `json:"tokens"`
}

// ShopItem keys are fixed for drop-in compatibility with existing data files.
type ShopItem struct {
	Name        string `json:"nome"`
	Price       int    `json:"preco"`
	Description string `json:"descricao"`
}

type PurchaseRecord struct {
	Buyer string `json:"usuario"`
	Item  string `json:"item"`
	Price int    `json:"preco"`
	Date  string `json:"data"`
}

// Document is the entire persisted application state. It is loaded, mutated
// and written back wholesale on every operation.
type Document struct {
	Users     Accounts         `json:"users"`
	Items     []ShopItem       `json:"items"`
	Purchases []PurchaseRecord `json:"purchases"`
}

func NewDocument() *Document {
	return &Document{
		Items:     []ShopItem{},
		Purchases: []PurchaseRecord{},
	}
}

// Accounts maps a user id to its account while preserving key insertion
// order. Order matters: the ranking tie-break is document order, which a
// plain map would lose on every reload.
type Accounts struct {
	ids  []string
	byID map[string]*UserAccount
}

func (a *Accounts) Len() int {
	return len(a.ids)
}

// IDs returns user ids in insertion order.
func (a *Accounts) IDs() []string {
	return a.ids
}

func (a *Accounts) Get(id string) (*UserAccount, bool) {
	acc, ok := a.byID[id]
	return acc, ok
}

// Ensure returns the account for id, creating a zero-token account when the
// id has not been seen before. The second result reports whether a new
// account was created.
func (a *Accounts) Ensure(id string) (*UserAccount, bool) {
	if acc, ok := a.byID[id]; ok {
		return acc, false
	}
	if a.byID == nil {
		a.byID = make(map[string]*UserAccount)
	}
	acc := &UserAccount{}
	a.byID[id] = acc
	a.ids = append(a.ids, id)
	return acc, true
}

func (a Accounts) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteByte('{')
	for i, id := range a.ids {
		if i > 0 {
			b.WriteByte(',')
		}
		key, err := json.Marshal(id)
		if err != nil {
			return nil, err
		}
		b.Write(key)
		b.WriteByte(':')
		val, err := json.Marshal(a.byID[id])
		if err != nil {
			return nil, err
		}
		b.Write(val)
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

func (a *Accounts) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected object for users, got %v", tok)
	}

	a.ids = nil
	a.byID = make(map[string]*UserAccount)
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return err
		}
		id, ok := tok.(string)
		if !ok {
			return fmt.Errorf("expected string key for users, got %v", tok)
		}

		acc := &UserAccount{}
		if err = dec.Decode(acc); err != nil {
			return err
		}
		a.ids = append(a.ids, id)
		a.byID[id] = acc
	}

	_, err = dec.Token()
	return err
}
