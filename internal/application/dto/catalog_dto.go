package dto

// ProductResponse salida de un producto del catálogo (solo lectura aquí).
type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// SkuResponse salida de un SKU de producto.
type SkuResponse struct {
	ID                string `json:"id"`
	ProductID         string `json:"product_id"`
	Code              string `json:"code"`
	Colour            string `json:"colour,omitempty"`
	Size              string `json:"size,omitempty"`
	QuantityAvailable int    `json:"quantity_available"`
}
