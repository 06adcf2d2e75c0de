package geo

// DefaultGroupColors maps each division to its display color.
var DefaultGroupColors = map[string]string{
	"Barisal":    "#4CAF50",
	"Chittagong": "#2196F3",
	"Dhaka":      "#F44336",
	"Khulna":     "#FF9800",
	"Mymensingh": "#9C27B0",
	"Rajshahi":   "#00BCD4",
	"Rangpur":    "#795548",
	"Sylhet":     "#607D8B",
}

// DefaultAliases holds the Bengali display name of each district.
var DefaultAliases = map[string]string{
	"Bagerhat":        "বাগেরহাট",
	"Bandarban":       "বান্দরবান",
	"Barguna":         "বরগুনা",
	"Barisal":         "বরিশাল",
	"Bhola":           "ভোলা",
	"Bogura":          "বগুড়া",
	"Brahmanbaria":    "ব্রাহ্মণবাড়িয়া",
	"Chandpur":        "চাঁদপুর",
	"Chapainawabganj": "চাঁপাইনবাবগঞ্জ",
	"Chattogram":      "চট্টগ্রাম",
	"Chuadanga":       "চুয়াডাঙ্গা",
	"Comilla":         "কুমিল্লা",
	"Cox's Bazar":     "কক্সবাজার",
	"Dhaka":           "ঢাকা",
	"Dinajpur":        "দিনাজপুর",
	"Faridpur":        "ফরিদপুর",
	"Feni":            "ফেনী",
	"Gaibandha":       "গাইবান্ধা",
	"Gazipur":         "গাজীপুর",
	"Gopalganj":       "গোপালগঞ্জ",
	"Habiganj":        "হবিগঞ্জ",
	"Jamalpur":        "জামালপুর",
	"Jessore":         "যশোর",
	"Jhalokati":       "ঝালকাঠি",
	"Jhenaidah":       "ঝিনাইদহ",
	"Joypurhat":       "জয়পুরহাট",
	"Khagrachhari":    "খাগড়াছড়ি",
	"Khulna":          "খুলনা",
	"Kishoreganj":     "কিশোরগঞ্জ",
	"Kurigram":        "কুড়িগ্রাম",
	"Kushtia":         "কুষ্টিয়া",
	"Lakshmipur":      "লক্ষ্মীপুর",
	"Lalmonirhat":     "লালমনিরহাট",
	"Madaripur":       "মাদারীপুর",
	"Magura":          "মাগুরা",
	"Manikganj":       "মানিকগঞ্জ",
	"Meherpur":        "মেহেরপুর",
	"Moulvibazar":     "মৌলভীবাজার",
	"Munshiganj":      "মুন্সিগঞ্জ",
	"Mymensingh":      "ময়মনসিংহ",
	"Naogaon":         "নওগাঁ",
	"Narail":          "নড়াইল",
	"Narayanganj":     "নারায়ণগঞ্জ",
	"Narsingdi":       "নরসিংদী",
	"Natore":          "নাটোর",
	"Netrokona":       "নেত্রকোণা",
	"Nilphamari":      "নীলফামারী",
	"Noakhali":        "নোয়াখালী",
	"Pabna":           "পাবনা",
	"Panchagarh":      "পঞ্চগড়",
	"Patuakhali":      "পটুয়াখালী",
	"Pirojpur":        "পিরোজপুর",
	"Rajbari":         "রাজবাড়ি",
	"Rajshahi":        "রাজশাহী",
	"Rangamati":       "রাঙ্গামাটি",
	"Rangpur":         "রংপুর",
	"Satkhira":        "সাতক্ষীরা",
	"Shariatpur":      "শরীয়তপুর",
	"Sherpur":         "শেরপুর",
	"Sirajganj":       "সিরাজগঞ্জ",
	"Sunamganj":       "সুনামগঞ্জ",
	"Sylhet":          "সিলেট",
	"Tangail":         "টাঙ্গাইল",
	"Thakurgaon":      "ঠাকুরগাঁও",
}
