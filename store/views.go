package store

// userProfile reshapes User for the profile page.
//
// @DtoDef {source: !type User, exclude: [PasswordHash], includeClassSourceAnnotations: false}
// @Cacheable
type userProfile struct {
	// Nickname is not stored on User.
	Nickname string `json:"nickname"`

	// @DtoProperty {from: Surname}
	LastName string `json:"last_name"`

	// @DtoProperty {includeSourceAnnotations: false}
	Email *string
}

// OrderView is the public projection of an Order.
//
// @DtoDef {source: !type store.Order, dtoName: OrderDto, include: [ID, Status, TotalCents, Items]}
type OrderView interface {
	// @DtoProperty {from: TotalCents}
	Total() int64
	Status() OrderStatus
}
