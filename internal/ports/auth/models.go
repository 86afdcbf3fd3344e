package auth

// Claims es la identidad ya verificada que el proveedor entrega al core.
// El core solo usa UserID; el resto viaja para logs.
type Claims struct {
	UserID string
	Email  string
	Name   string
}
