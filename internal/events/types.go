package events

type ProductCreated struct {
	ProductID string `json:"product_id"`
}

type ProductUpdated struct {
	ProductID string `json:"product_id"`
}

type ProductDeleted struct {
	ProductID string `json:"product_id"`
}

type UserCreated struct {
	UserID string `json:"user_id"`
}

type UserUpdated struct {
	UserID string `json:"user_id"`
}

type UserDeleted struct {
	UserID string `json:"user_id"`
}

type OrderCreated struct {
	OrderID string `json:"order_id"`
}

type OrderUpdated struct {
	OrderID string `json:"order_id"`
}

type OrderDeleted struct {
	OrderID string `json:"order_id"`
}
