package model

// カート明細。永続化せずセッションストアだけが持つ。
// プロセス再起動で消える。
type CartLine struct {
	LineNumber int64   `json:"line_number"`
	ProductID  int64   `json:"product_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Quantity   int64   `json:"quantity"`
}
