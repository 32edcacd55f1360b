package response

import "ticket-booking/internal/data/entity"

type TicketResponse struct {
	Tier      string  `json:"tier"`
	Price     float64 `json:"price"`
	Available int     `json:"available"`
	Total     int     `json:"total"`
	Booked    int     `json:"booked"`
}

func NewTicketResponse(t *entity.Ticket) TicketResponse {
	return TicketResponse{
		Tier:      t.Tier.String(),
		Price:     t.Price.InexactFloat64(),
		Available: t.Available,
		Total:     t.Total,
		Booked:    t.Booked,
	}
}

func NewTicketListResponse(tickets []*entity.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}
