package entity

type Route string

const (
	RouteLogin     Route = "Login"
	RouteBills     Route = "Bills"
	RouteNewBill   Route = "NewBill"
	RouteDashboard Route = "Dashboard"
)

var routePaths = map[Route]string{
	RouteLogin:     "/",
	RouteBills:     "#employee/bills",
	RouteNewBill:   "#employee/bill/new",
	RouteDashboard: "#admin/dashboard",
}

func (r Route) Path() string {
	return routePaths[r]
}
