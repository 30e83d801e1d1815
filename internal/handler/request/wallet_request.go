package request

// 金额与手续费均为最小单位 (例如 wei) 的整数字符串

type TransferRequest struct {
	To       string `json:"to" binding:"required,eth_addr"`
	Token    string `json:"token" binding:"required,max=20"`
	FeeToken string `json:"fee_token" binding:"required,max=20"`
	Amount   string `json:"amount" binding:"required,base_units"`
	Fee      string `json:"fee" binding:"required,base_units"`
}

type WithdrawRequest struct {
	Address      string `json:"address" binding:"required,eth_addr"`
	Token        string `json:"token" binding:"required,max=20"`
	FeeToken     string `json:"fee_token" binding:"required,max=20"`
	Amount       string `json:"amount" binding:"required,base_units"`
	Fees         string `json:"fees" binding:"required,base_units"`
	FastWithdraw bool   `json:"fast_withdraw"`
}

type DepositRequest struct {
	Token  string `json:"token" binding:"required,max=20"`
	Amount string `json:"amount" binding:"required,base_units"`
}

type NonceQuery struct {
	Tier string `form:"tier" binding:"omitempty,oneof=committed verified"`
}
