package dto

// TransferRequest body para POST /api/inventory/transfers.
type TransferRequest struct {
	FromWarehouseID string `json:"from_warehouse_id"`
	ToWarehouseID   string `json:"to_warehouse_id"`
	ProductID       string `json:"product_id"`
	Quantity        int64  `json:"quantity"`
	Reason          string `json:"reason,omitempty"`
	Reference       string `json:"reference,omitempty"`
}

// TransferResult resultado de un traslado.
type TransferResult struct {
	Success    bool     `json:"success"`
	TransferID string   `json:"transfer_id,omitempty"`
	Errors     []string `json:"errors,omitempty"`
}
