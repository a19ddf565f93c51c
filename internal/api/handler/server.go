package handler

// Server 路由使用的所有 handler
type Server struct {
	ListingHandler  *ListingHandler
	LocationHandler *LocationHandler
	CartHandler     *CartHandler
	CheckoutHandler *CheckoutHandler
	MessageHandler  *MessageHandler
}

func NewServer(
	listingHandler *ListingHandler,
	locationHandler *LocationHandler,
	cartHandler *CartHandler,
	checkoutHandler *CheckoutHandler,
	messageHandler *MessageHandler,
) *Server {
	return &Server{
		ListingHandler:  listingHandler,
		LocationHandler: locationHandler,
		CartHandler:     cartHandler,
		CheckoutHandler: checkoutHandler,
		MessageHandler:  messageHandler,
	}
}
