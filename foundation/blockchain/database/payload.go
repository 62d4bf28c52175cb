package database

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// PayloadKind identifies what a block is carrying.
type PayloadKind int

// Set of payload kinds a block can carry.
const (
	PayloadTransactions PayloadKind = iota
	PayloadRaw
)

// String implements the fmt.Stringer interface.
func (k PayloadKind) String() string {
	switch k {
	case PayloadRaw:
		return "raw"
	default:
		return "transactions"
	}
}

// Payload is the data carried by a block. It is either an opaque raw value
// or an ordered set of transactions. On the wire a raw value is a JSON
// string and a set of transactions is a JSON array.
type Payload struct {
	kind PayloadKind
	raw  string
	txs  []Tx
}

// RawPayload constructs a payload holding an opaque value.
func RawPayload(raw string) Payload {
	return Payload{kind: PayloadRaw, raw: raw}
}

// TxPayload constructs a payload holding the set of transactions.
func TxPayload(txs []Tx) Payload {
	return Payload{kind: PayloadTransactions, txs: txs}
}

// Kind returns the kind of data carried.
func (p Payload) Kind() PayloadKind {
	return p.kind
}

// Raw returns the raw value and reports if the payload is raw.
func (p Payload) Raw() (string, bool) {
	return p.raw, p.kind == PayloadRaw
}

// Transactions returns the set of transactions. A raw payload has none.
func (p Payload) Transactions() []Tx {
	if p.kind != PayloadTransactions {
		return nil
	}
	return p.txs
}

// Clone returns a deep copy of the payload.
func (p Payload) Clone() Payload {
	if p.kind != PayloadTransactions || p.txs == nil {
		return p
	}

	txs := make([]Tx, len(p.txs))
	for i, tx := range p.txs {
		txs[i] = tx.Clone()
	}
	p.txs = txs

	return p
}

// String implements the fmt.Stringer interface for logging.
func (p Payload) String() string {
	if p.kind == PayloadRaw {
		return p.raw
	}
	return fmt.Sprintf("txs[%d]", len(p.txs))
}

// MarshalJSON implements the json.Marshaler interface.
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.kind == PayloadRaw {
		return json.Marshal(p.raw)
	}

	if p.txs == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.txs)
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (p *Payload) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*p = TxPayload(nil)

	case data[0] == '"':
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("decoding raw payload: %w", err)
		}
		*p = RawPayload(raw)

	case data[0] == '[':
		var txs []Tx
		if err := json.Unmarshal(data, &txs); err != nil {
			return fmt.Errorf("decoding transaction payload: %w", err)
		}
		*p = TxPayload(txs)

	default:
		return fmt.Errorf("unsupported payload %q", data[:1])
	}

	return nil
}
