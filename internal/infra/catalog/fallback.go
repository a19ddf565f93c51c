package catalog

import "github.com/RoyceAzure/lab/eventro/internal/domain/model"

// 內建資料，主要來源失敗時使用。每次回傳新 slice，呼叫端可自由修改

func fallbackSoundSystemPackages() []model.Package {
	return []model.Package{
		{
			ID:        1,
			ListingID: 1,
			Name:      "Basic Package (4 hrs)",
			Unit:      model.PricingUnitHourly,
			Price:     150000,
			Includes:  []string{"Professional mixing console", "2 High-quality speakers", "2 Wireless microphones", "Setup and breakdown"},
		},
		{
			ID:        2,
			ListingID: 1,
			Name:      "Premium Package (8 hrs)",
			Unit:      model.PricingUnitDaily,
			Price:     250000,
			Includes:  []string{"Professional mixing console", "4 High-quality speakers", "4 Wireless microphones", "Lighting effects", "Setup and breakdown", "Technical support"},
		},
		{
			ID:        3,
			ListingID: 1,
			Name:      "Full Event Package",
			Unit:      model.PricingUnitEvent,
			Price:     600000,
			Includes:  []string{"Complete sound system", "Professional DJ booth", "Wireless microphones", "Stage lighting", "Backup equipment", "Full technical crew"},
		},
	}
}

func FallbackListings() []model.Listing {
	return []model.Listing{
		{
			ID: 1, Title: "Professional Sound System for Events",
			CategoryID: 2, Category: "Sound System Rental",
			VendorID: 1, VendorName: "SoundWave Productions", VendorAvatar: "../assets/img/placeholders/avatar-01.jpg",
			City: "Lagos", State: "Lagos", Country: "Nigeria",
			BasePriceCents: 150000, Currency: "NGN", InstantBook: true,
			Rating: 4.9, ReviewsCount: 23,
			Photo: "../assets/img/placeholders/listing-01.jpg", Featured: true,
			PricingUnit: model.PricingUnitHourly,
			Packages:    fallbackSoundSystemPackages(),
		},
		{
			ID: 2, Title: "Wedding DJ & Entertainment Services",
			CategoryID: 5, Category: "MC/Compere",
			VendorID: 2, VendorName: "DJ Master Mix",
			City: "Abuja", State: "FCT", Country: "Nigeria",
			BasePriceCents: 200000, Currency: "NGN", InstantBook: false,
			Rating: 4.7, ReviewsCount: 45,
			Photo: "../assets/img/placeholders/listing-02.jpg", Featured: true,
		},
		{
			ID: 3, Title: "Premium Catering Services",
			CategoryID: 1, Category: "Catering",
			VendorID: 3, VendorName: "Elite Catering",
			City: "Port Harcourt", State: "Rivers", Country: "Nigeria",
			BasePriceCents: 2500000, Currency: "NGN", InstantBook: true,
			Rating: 4.8, ReviewsCount: 67,
			Photo: "../assets/img/placeholders/listing-03.jpg", Featured: true,
		},
		{
			ID: 4, Title: "Professional Photography Services",
			CategoryID: 8, Category: "Photography",
			VendorID: 4, VendorName: "Capture Moments",
			City: "Ibadan", State: "Oyo", Country: "Nigeria",
			BasePriceCents: 500000, Currency: "NGN", InstantBook: false,
			Rating: 4.6, ReviewsCount: 34,
			Photo: "../assets/img/placeholders/listing-04.jpg", Featured: false,
		},
		{
			ID: 5, Title: "Interior Decoration & Styling",
			CategoryID: 3, Category: "Interior Decor",
			VendorID: 5, VendorName: "Luxury Decor Co",
			City: "Enugu", State: "Enugu", Country: "Nigeria",
			BasePriceCents: 800000, Currency: "NGN", InstantBook: true,
			Rating: 4.9, ReviewsCount: 56,
			Photo: "../assets/img/placeholders/listing-05.jpg", Featured: false,
		},
		{
			ID: 6, Title: "Professional Security Services",
			CategoryID: 4, Category: "Security",
			VendorID: 6, VendorName: "SecureGuard Pro",
			City: "Kano", State: "Kano", Country: "Nigeria",
			BasePriceCents: 100000, Currency: "NGN", InstantBook: false,
			Rating: 4.5, ReviewsCount: 28,
			Photo: "../assets/img/placeholders/listing-06.jpg", Featured: false,
		},
	}
}

func FallbackCategories() []model.Category {
	return []model.Category{
		{ID: 1, Name: "Catering", Slug: "catering", Icon: "fas fa-utensils"},
		{ID: 2, Name: "Sound System Rental", Slug: "sound-system-rental", Icon: "fas fa-volume-up"},
		{ID: 3, Name: "Interior Decor", Slug: "interior-decor", Icon: "fas fa-palette"},
		{ID: 4, Name: "Security", Slug: "security", Icon: "fas fa-shield-alt"},
		{ID: 5, Name: "MC/Compere", Slug: "mc-compere", Icon: "fas fa-microphone"},
		{ID: 6, Name: "Comedian", Slug: "comedian", Icon: "fas fa-laugh"},
		{ID: 7, Name: "Chair Rental", Slug: "chair-rental", Icon: "fas fa-chair"},
		{ID: 8, Name: "Photography", Slug: "photography", Icon: "fas fa-camera"},
		{ID: 9, Name: "Videography", Slug: "videography", Icon: "fas fa-video"},
		{ID: 10, Name: "Lighting", Slug: "lighting", Icon: "fas fa-lightbulb"},
		{ID: 11, Name: "Stage", Slug: "stage", Icon: "fas fa-theater-masks"},
		{ID: 12, Name: "Transportation", Slug: "transportation", Icon: "fas fa-car"},
		{ID: 13, Name: "Cleaning", Slug: "cleaning", Icon: "fas fa-broom"},
	}
}

func FallbackLocations() model.Locations {
	return model.Locations{
		Countries: []model.Country{
			{ID: 1, Name: "Nigeria", Code: "NG"},
		},
		States: []model.State{
			{ID: 1, Name: "Lagos", CountryID: 1, Code: "LA"},
			{ID: 2, Name: "FCT", CountryID: 1, Code: "FC"},
			{ID: 3, Name: "Rivers", CountryID: 1, Code: "RI"},
			{ID: 4, Name: "Oyo", CountryID: 1, Code: "OY"},
			{ID: 5, Name: "Enugu", CountryID: 1, Code: "EN"},
			{ID: 6, Name: "Kano", CountryID: 1, Code: "KN"},
			{ID: 7, Name: "Kaduna", CountryID: 1, Code: "KD"},
			{ID: 8, Name: "Plateau", CountryID: 1, Code: "PL"},
			{ID: 9, Name: "Delta", CountryID: 1, Code: "DE"},
			{ID: 10, Name: "Anambra", CountryID: 1, Code: "AN"},
		},
		Cities: []model.City{
			{ID: 1, Name: "Lagos Island", StateID: 1},
			{ID: 2, Name: "Victoria Island", StateID: 1},
			{ID: 3, Name: "Ikeja", StateID: 1},
			{ID: 4, Name: "Lekki", StateID: 1},
			{ID: 5, Name: "Surulere", StateID: 1},
			{ID: 6, Name: "Yaba", StateID: 1},
			{ID: 7, Name: "Abuja", StateID: 2},
			{ID: 8, Name: "Gwagwalada", StateID: 2},
			{ID: 9, Name: "Kuje", StateID: 2},
			{ID: 10, Name: "Bwari", StateID: 2},
			{ID: 11, Name: "Port Harcourt", StateID: 3},
			{ID: 12, Name: "Obio-Akpor", StateID: 3},
			{ID: 13, Name: "Eleme", StateID: 3},
			{ID: 14, Name: "Ibadan", StateID: 4},
			{ID: 15, Name: "Ogbomoso", StateID: 4},
			{ID: 16, Name: "Oyo", StateID: 4},
			{ID: 17, Name: "Enugu", StateID: 5},
			{ID: 18, Name: "Nsukka", StateID: 5},
			{ID: 19, Name: "Oji River", StateID: 5},
			{ID: 20, Name: "Kano", StateID: 6},
			{ID: 21, Name: "Wudil", StateID: 6},
			{ID: 22, Name: "Gwarzo", StateID: 6},
		},
	}
}
