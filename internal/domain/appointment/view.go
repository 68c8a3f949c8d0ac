package appointment

import "time"

// BuildView assembles the derived list/detail view of an appointment from
// its fetched bookings and payments. Duration is the span from the earliest
// booking start to the latest booking end; a booking's payment status comes
// from the payment matching its service id, defaulting to "unpaid".
func BuildView(rec Record, bookings []BookingDetail, payments []PaymentRecord) View {
	v := View{Record: rec, Services: make([]BookingView, 0, len(bookings))}
	if len(bookings) == 0 {
		return v
	}

	v.ServiceCount = len(bookings)

	var earliestStart time.Time
	var latestEnd time.Time
	haveEnd := false
	for _, b := range bookings {
		v.TotalCost += b.Price
		if earliestStart.IsZero() || b.Start.Before(earliestStart) {
			earliestStart = b.Start
		}
		if b.End != nil && (!haveEnd || b.End.After(latestEnd)) {
			latestEnd = *b.End
			haveEnd = true
		}
		v.Services = append(v.Services, BookingView{
			BookingDetail: b,
			PaymentStatus: paymentStatusFor(b.ServiceID, payments),
		})
	}

	if haveEnd {
		v.DurationMinutes = int(latestEnd.Sub(earliestStart).Minutes())
	}
	start := earliestStart
	v.StartTime = &start
	return v
}

// BuildTimelineView is the dashboard variant: duration is the sum of
// per-booking durations rather than the overall span, and only bookings
// with both endpoints contribute.
func BuildTimelineView(rec Record, bookings []BookingDetail, payments []PaymentRecord) View {
	v := View{Record: rec, Services: make([]BookingView, 0, len(bookings))}
	if len(bookings) == 0 {
		return v
	}

	v.ServiceCount = len(bookings)

	var totalMinutes float64
	var earliestStart *time.Time
	for _, b := range bookings {
		v.TotalCost += b.Price
		if b.End != nil {
			totalMinutes += b.End.Sub(b.Start).Minutes()
			if earliestStart == nil || b.Start.Before(*earliestStart) {
				start := b.Start
				earliestStart = &start
			}
		}
		v.Services = append(v.Services, BookingView{
			BookingDetail: b,
			PaymentStatus: paymentStatusFor(b.ServiceID, payments),
		})
	}

	v.DurationMinutes = int(totalMinutes)
	v.StartTime = earliestStart
	return v
}

func paymentStatusFor(serviceID string, payments []PaymentRecord) string {
	for _, p := range payments {
		if p.ServiceID != nil && *p.ServiceID == serviceID {
			return p.Status
		}
	}
	return "unpaid"
}
