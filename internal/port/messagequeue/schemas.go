package messagequeue

// NameRegisteredPayload is the schema for names.registered messages.
type NameRegisteredPayload struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Owner    string `json:"owner"`
	TxHash   string `json:"tx_hash"`
	ValueWei string `json:"value_wei"`
}

// CollectionCreatedPayload is the schema for collections.created messages.
type CollectionCreatedPayload struct {
	Address string `json:"address"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
	Creator string `json:"creator"`
}

// CollectionMintedPayload is the schema for collections.minted messages.
type CollectionMintedPayload struct {
	Address string `json:"address"`
	TokenID int    `json:"token_id"`
	Owner   string `json:"owner"`
	TxHash  string `json:"tx_hash"`
}
