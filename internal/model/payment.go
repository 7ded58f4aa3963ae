package model

// SepayWebhookRequest 金流閘道回呼的通知內容。
// Content 為自由文字的轉帳備註，訂單編號以數字 token 形式埋在其中。
type SepayWebhookRequest struct {
	Gateway         string  `json:"gateway"`
	TransactionDate string  `json:"transactionDate"`
	AccountNumber   string  `json:"accountNumber"`
	Content         string  `json:"content"`
	TransferAmount  float64 `json:"transferAmount"`
	TransferType    string  `json:"transferType"` // "in" 才需要對帳
	ReferenceCode   string  `json:"referenceCode"`
}

// SepayWebhookResponse 回覆閘道；對不上帳時 success=false 但仍回 200
type SepayWebhookResponse struct {
	Success bool `json:"success"`
}
