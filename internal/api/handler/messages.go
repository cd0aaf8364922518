package handler

// 对外响应文案，前端按原文展示
const (
	msgRegistered         = "User registered successfully"
	msgMissingFields      = "Username and password are required"
	msgAccountExists      = "User already exists"
	msgInvalidCredentials = "Invalid credentials"
	msgStoreUnavailable   = "Account store not configured"
	msgUnauthenticated    = "Authentication required"
	msgInvalidBody        = "Invalid request body"
	msgInvalidQuery       = "Invalid query parameters"
	msgUserNotFound       = "User not found"
	msgProfileUpdated     = "Profile updated successfully"
	msgLoggedOut          = "Logged out"
	msgCourseNotFound     = "Course not found"
	msgReportNoRows       = "No students match the selected filters"
)
