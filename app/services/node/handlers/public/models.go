package public

import "github.com/ardanlabs/ledger/foundation/blockchain/database"

// blocksPerPage is the number of blocks returned by a page request.
const blocksPerPage = 5

type mineRequest struct {
	Data string `json:"data" validate:"required"`
}

type transactRequest struct {
	Recipient string `json:"recipient" validate:"required"`
	Amount    uint64 `json:"amount" validate:"required,gt=0"`
}

type transactResponse struct {
	Type        string      `json:"type"`
	Transaction database.Tx `json:"transaction"`
}

type length struct {
	Length int `json:"length"`
}

type walletInfo struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Balance uint64 `json:"balance"`
}

type knownAddress struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type status struct {
	Status string `json:"status"`
}
