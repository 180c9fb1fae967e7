package keyword

// CategoryKeywords maps one category name to its keyword vocabulary.
type CategoryKeywords struct {
	Category string
	Keywords []string
}

// DefaultKeywords returns the built-in category vocabulary. Slice order is
// significant: when two categories tie on score, the earlier entry wins.
// The tie-break is deliberate and documented rather than left to map
// iteration order.
func DefaultKeywords() []CategoryKeywords {
	return []CategoryKeywords{
		{
			Category: "Food & Dining",
			Keywords: []string{
				"restaurant", "cafe", "coffee", "pizza", "burger", "food", "kitchen",
				"swiggy", "zomato", "ubereats", "delivery", "dining", "breakfast",
				"lunch", "dinner", "snacks", "bakery", "juice", "meal", "eat",
				"mcdonald", "kfc", "subway", "starbucks", "dominos", "biryani",
				"hotel", "dosa", "idli", "thali", "dhaba",
			},
		},
		{
			Category: "Transportation",
			Keywords: []string{
				"uber", "ola", "taxi", "metro", "bus", "petrol", "diesel", "fuel",
				"parking", "toll", "rapido", "train", "railway", "flight", "airline",
				"auto", "rickshaw", "ride", "cab", "transport", "vehicle", "bike",
			},
		},
		{
			Category: "Shopping",
			Keywords: []string{
				"grocery", "supermarket", "market", "bigbasket", "blinkit", "instamart",
				"dunzo", "vegetables", "fruits", "store", "mart", "bazaar", "provisions",
				"fresh", "reliance", "dmart", "walmart",
				"amazon", "flipkart", "myntra", "ajio", "shopping", "mall",
				"fashion", "clothing", "shoes", "accessories", "electronics", "gadgets",
				"online", "purchase", "buy", "shop", "retail", "outlet", "brand",
			},
		},
		{
			Category: "Entertainment",
			Keywords: []string{
				"movie", "cinema", "pvr", "inox", "theatre", "game", "gaming", "steam",
				"playstation", "xbox", "nintendo", "bookmyshow", "concert", "event",
				"netflix", "prime", "hotstar", "spotify", "youtube", "subscription",
				"entertainment", "amusement", "park", "club",
			},
		},
		{
			Category: "Healthcare",
			Keywords: []string{
				"hospital", "clinic", "doctor", "medical", "pharmacy", "medicine",
				"health", "apollo", "practo", "pharmeasy", "diagnostic",
				"lab", "test", "checkup", "consultation", "dental", "physiotherapy",
				"gym", "fitness", "yoga", "wellness",
			},
		},
		{
			Category: "Housing & Utilities",
			Keywords: []string{
				"electricity", "water", "gas", "internet", "broadband", "mobile",
				"phone", "recharge", "bill", "utility", "maintenance", "rent",
				"emi", "loan", "credit card", "insurance", "premium",
			},
		},
		{
			Category: "Education",
			Keywords: []string{
				"education", "school", "college", "university", "course", "tuition",
				"training", "workshop", "seminar", "udemy", "coursera", "book", "books",
				"library", "study", "learning", "class", "coaching",
			},
		},
		{
			Category: "Other",
			Keywords: []string{
				"personal", "salon", "spa", "grooming", "haircut", "beauty", "cosmetic",
				"parlour", "barber", "skincare", "makeup", "travel",
				"booking", "airbnb", "oyo", "resort", "vacation", "trip",
				"tourism", "goibibo", "makemytrip", "yatra", "cleartrip",
				"holiday", "tour", "package", "miscellaneous", "misc",
			},
		},
	}
}
