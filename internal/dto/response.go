package dto

// HealthResponse 健康检查响应
type HealthResponse struct {
	Status   string `json:"status"`
	Students int    `json:"students"`
	Scorer   string `json:"scorer"`
}
