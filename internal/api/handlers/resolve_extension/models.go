package resolve_extension

// ResolveBody HTTP request model
type ResolveBody struct {
	Message string `json:"message"`
}
