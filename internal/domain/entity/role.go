package entity

// Roles válidos en el token. El usuario y sus credenciales viven fuera de este servicio.
const (
	RoleAdmin     = "admin"     // catálogo, movimientos y conciliación
	RoleBodeguero = "bodeguero" // registra movimientos
	RoleVendedor  = "vendedor"  // solo lectura
)
