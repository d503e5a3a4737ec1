package response

const (
	CodeOK = 0
)
