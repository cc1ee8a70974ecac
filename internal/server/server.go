package server

// Server объединяет HTTP-обработчики барахолки: лоты и торговцев.
type Server struct {
	OfferServer
	TraderServer
}

func NewServer(
	offerServer OfferServer,
	traderServer TraderServer,
) Server {
	return Server{
		OfferServer:  offerServer,
		TraderServer: traderServer,
	}
}
