package schema

// Operation schemas: one input contract per API operation of the portal.
// Update schemas share the "at least one mutable field besides the
// identifier" refinement so a bare {id} body is rejected.

// Denuncias

func CreateDenuncia() *ObjectSchema {
	return Object(
		Required("titulo", Name()),
		Required("descripcion", String().Trim().Min(1).Max(2000)),
		Required("categoria_id", UUID()),
		Required("latitud", Latitude()),
		Required("longitud", Longitude()),
		Optional("direccion", String().Trim().Max(200)),
		Optional("email_contacto", Email()),
		Optional("telefono_contacto", Phone()),
	)
}

func UpdateDenuncia() *ObjectSchema {
	mutable := []string{"titulo", "descripcion", "categoria_id", "estado", "inspector_id", "direccion", "latitud", "longitud"}
	return Object(
		Required("id", UUID()),
		Optional("titulo", Name()),
		Optional("descripcion", String().Trim().Min(1).Max(2000)),
		Optional("categoria_id", UUID()),
		Optional("estado", String().Trim().Min(1).Max(50)),
		Optional("inspector_id", UUID()),
		Optional("direccion", String().Trim().Max(200)),
		Optional("latitud", Latitude()),
		Optional("longitud", Longitude()),
	).Refine("al-menos-un-campo", AtLeastOne(mutable...))
}

// Inspectores

func CreateInspector() *ObjectSchema {
	return Object(
		Required("nombre", Name()),
		Required("email", Email()),
		Optional("telefono", Phone()),
	)
}

func UpdateInspector() *ObjectSchema {
	return Object(
		Required("id", UUID()),
		Optional("nombre", Name()),
		Optional("email", Email()),
		Optional("telefono", Phone()),
		Optional("activo", Bool()),
	).Refine("al-menos-un-campo", AtLeastOne("nombre", "email", "telefono", "activo"))
}

// Vehículos

func CreateVehiculo() *ObjectSchema {
	return Object(
		Required("patente", Plate()),
		Required("marca", Name()),
		Required("modelo", Name()),
		Optional("inspector_id", UUID()),
	)
}

func UpdateVehiculo() *ObjectSchema {
	return Object(
		Required("id", UUID()),
		Optional("patente", Plate()),
		Optional("marca", Name()),
		Optional("modelo", Name()),
		Optional("inspector_id", UUID()),
		Optional("activo", Bool()),
	).Refine("al-menos-un-campo", AtLeastOne("patente", "marca", "modelo", "inspector_id", "activo"))
}

// Categorías

func CreateCategoria() *ObjectSchema {
	return Object(
		Required("nombre", Name()),
		Optional("descripcion", String().Trim().Max(500)),
	)
}

func UpdateCategoria() *ObjectSchema {
	return Object(
		Required("id", UUID()),
		Optional("nombre", Name()),
		Optional("descripcion", String().Trim().Max(500)),
	).Refine("al-menos-un-campo", AtLeastOne("nombre", "descripcion"))
}

// Usuarios y roles

func CreateUsuario() *ObjectSchema {
	return Object(
		Required("email", Email()),
		Required("nombre", Name()),
		Required("password", Password()),
		Required("rol_id", Role()),
	)
}

func UpdateUsuario() *ObjectSchema {
	return Object(
		Required("id", UUID()),
		Optional("nombre", Name()),
		Optional("rol_id", Role()),
		Optional("activo", Bool()),
	).Refine("al-menos-un-campo", AtLeastOne("nombre", "rol_id", "activo"))
}

// Shared

// DeleteByID is the input for every delete operation.
func DeleteByID() *ObjectSchema {
	return Object(Required("id", UUID()))
}

// ListQuery is the paginated list input shared by every list operation.
// Missing page/limit resolve to their defaults.
func ListQuery() *ObjectSchema {
	return Object(
		Required("page", Page()),
		Required("limit", Limit()),
	)
}

// AuditQuery filters the audit log listing.
func AuditQuery() *ObjectSchema {
	return Object(
		Required("page", Page()),
		Required("limit", Limit()),
		Optional("usuario_id", UUID()),
		Optional("accion", String().Trim().Max(100)),
	)
}
