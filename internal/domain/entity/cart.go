package entity

// CartItem es un producto del carrito (y luego del pedido) con su cantidad.
// El producto se copia por valor: el pedido conserva el precio vigente al confirmarlo.
type CartItem struct {
	Product
	Quantity int    `json:"quantity"`
	FileURL  string `json:"file_url,omitempty"`
}
