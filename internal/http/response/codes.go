package response

// 业务状态码，HTTP 层统一返回 200，错误语义放在 status_code 里
const (
	CodeOK              = 0
	CodeBadRequest      = 400
	CodeNotFound        = 404
	CodeTooManyRequests = 429
	CodeInternal        = 500
)
