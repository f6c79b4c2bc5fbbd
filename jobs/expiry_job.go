package jobs

import (
	"log"

	"github.com/menttalk/mentor_marketplace/database"
	"github.com/menttalk/mentor_marketplace/services"
)

// ReapUnpaidBookings is the durable backstop for the in-process expiry
// timers: it deletes pending bookings whose payment never confirmed within
// the timeout, including ones whose timer died with a previous process.
func ReapUnpaidBookings() {
	reaped, err := services.ReapExpiredBookings(database.DB, services.UnpaidBookingTimeout)
	if err != nil {
		log.Printf("🔥 Error reaping unpaid bookings: %v", err)
		return
	}
	if reaped > 0 {
		log.Printf("Reaped %d unpaid bookings", reaped)
	}
}
