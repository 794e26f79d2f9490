// Package seeddata holds the demo catalog and bookings used by cmd/seed and by the
// API when it runs on in-memory stores.
package seeddata

import (
	"time"

	"sharespot/internal/domain"
	"sharespot/internal/pkg/dates"
)

func ptr(v float64) *float64 { return &v }

func window(start, end string) []dates.Range {
	return []dates.Range{{Start: dates.MustParse(start), End: dates.MustParse(end)}}
}

func Items() []domain.Item {
	return []domain.Item{
		{
			ID: "1", OwnerID: "101", OwnerName: "Alex Johnson", Title: "Power Drill - Cordless",
			Image:      "https://images.unsplash.com/photo-1616321507403-9e5d7b6b0bd3?q=80&w=1000",
			RentalType: domain.RentalRent, PricePerDay: 5, Deposit: ptr(50),
			AvailableDates: window("2023-11-01", "2023-12-31"),
		},
		{
			ID: "2", OwnerID: "102", OwnerName: "Maria Garcia", Title: "Stand Mixer - KitchenAid",
			Image:      "https://images.unsplash.com/photo-1594046243098-0fceea9d451e?q=80&w=1000",
			RentalType: domain.RentalRent, PricePerDay: 8, Deposit: ptr(100),
			AvailableDates: window("2023-11-01", "2023-11-30"),
		},
		{
			ID: "3", OwnerID: "103", OwnerName: "David Kim", Title: "Camping Tent - 4 Person",
			Image:      "https://images.unsplash.com/photo-1504280390367-361c6d9f38f4?q=80&w=1000",
			RentalType: domain.RentalRent, PricePerDay: 10, Deposit: ptr(75),
			AvailableDates: window("2023-11-01", "2023-12-15"),
		},
		{
			ID: "4", OwnerID: "104", OwnerName: "Sarah Wilson", Title: "Projector - HD Quality",
			Image:      "https://images.unsplash.com/photo-1626379953822-baec19c3accd?q=80&w=1000",
			RentalType: domain.RentalRent, PricePerDay: 15, Deposit: ptr(150),
			AvailableDates: window("2023-11-01", "2023-12-31"),
		},
		{
			ID: "5", OwnerID: "105", OwnerName: "James Taylor", Title: "Baby Stroller - Lightweight",
			Image:      "https://images.unsplash.com/photo-1591147834132-a7c242e9c5b1?q=80&w=1000",
			RentalType: domain.RentalLoan, PricePerDay: 0,
			AvailableDates: window("2023-11-01", "2023-11-30"),
		},
		{
			ID: "6", OwnerID: "106", OwnerName: "Emma Brown", Title: "Lawn Mower - Electric",
			Image:      "https://images.unsplash.com/photo-1589365278144-c9e705f843ba?q=80&w=1000",
			RentalType: domain.RentalRent, PricePerDay: 12, Deposit: ptr(100),
			AvailableDates: window("2023-11-01", "2023-12-15"),
		},
	}
}

func Bookings() []domain.Booking {
	booking := func(id, itemID, ownerID, ownerName, borrowerID, borrowerName, start, end string,
		status domain.BookingStatus, total, deposit float64, created string) domain.Booking {
		createdAt, _ := time.Parse(time.RFC3339, created)
		return domain.Booking{
			ID: id, ItemID: itemID,
			OwnerID: ownerID, OwnerName: ownerName,
			BorrowerID: borrowerID, BorrowerName: borrowerName,
			StartDate: dates.MustParse(start), EndDate: dates.MustParse(end),
			Status: status, TotalPrice: total, Deposit: ptr(deposit),
			CreatedAt: createdAt, UpdatedAt: createdAt,
		}
	}

	out := []domain.Booking{
		booking("1001", "1", "101", "Alex Johnson", "102", "Maria Garcia", "2023-11-10", "2023-11-12",
			domain.BookingApproved, 15, 50, "2023-11-05T14:30:00Z"),
		booking("1002", "3", "103", "David Kim", "101", "Alex Johnson", "2023-11-15", "2023-11-17",
			domain.BookingPending, 30, 75, "2023-11-08T09:15:00Z"),
		booking("1003", "2", "102", "Maria Garcia", "104", "Sarah Wilson", "2023-11-20", "2023-11-22",
			domain.BookingCompleted, 24, 100, "2023-11-01T16:45:00Z"),
		booking("1004", "5", "105", "James Taylor", "102", "Maria Garcia", "2023-11-05", "2023-11-08",
			domain.BookingActive, 0, 0, "2023-11-01T11:20:00Z"),
	}

	items := make(map[string]domain.Item)
	for _, it := range Items() {
		items[it.ID] = it
	}
	for i := range out {
		it := items[out[i].ItemID]
		out[i].ItemTitle = it.Title
		out[i].ItemImage = it.Image
	}
	return out
}
