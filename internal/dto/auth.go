package dto

// ── 认证模块 DTO ──

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Email    string `json:"email"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	AccessToken string `json:"access_token"`
}

// ── 个人资料 ──

// ProfileResponse 个人资料（不含密码）
type ProfileResponse struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// UpdateProfileRequest 资料更新请求，字段缺省表示不修改
type UpdateProfileRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}
