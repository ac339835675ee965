package auth

// Claims es lo que los handlers necesitan del token: el usuario dueño de los datos.
type Claims struct {
	UserID string
	Email  string
}
