package model

// Route names shared between the router and the hypermedia relations the
// models declare. The router registers the matching templates at startup.
const (
	RouteAllProducts = "all_products"
	RouteOneProduct  = "one_product"
	RouteAllUsers    = "all_users"
	RouteOneUser     = "one_user"
	RouteCreateUser  = "create_user"
	RouteDeleteUser  = "delete_user"
)
