// Package classify assigns each recall to exactly one category of the
// fixed taxonomy.
package classify

import "plainrecalls/pkg/models"

// Category is a taxonomy entry with the keywords that select it.
type Category struct {
	ID          string
	Name        string
	Description string
	Keywords    []string
}

// Category ids.
const (
	Food           = "food"
	Drugs          = "drugs"
	MedicalDevices = "medical-devices"
	Vehicles       = "vehicles"
	Children       = "children"
	Electronics    = "electronics"
	Household      = "household"
	Outdoor        = "outdoor"
	Cosmetics      = "cosmetics"
	Supplements    = "supplements"
	MeatPoultry    = "meat-poultry"
	Appliances     = "appliances"
)

// Categories is ordered: when text matches keywords of several categories
// the earliest one wins. Do not reorder.
var Categories = []Category{
	{Food, "Food", "Food safety recalls including contamination, mislabeling, and undeclared allergens",
		[]string{"food", "meat", "poultry", "dairy", "produce", "snack", "beverage", "cereal", "bread", "sauce", "soup", "salad", "cheese", "ice cream", "seafood", "fish", "chicken", "beef", "pork", "egg", "nut", "fruit", "vegetable"}},
	{Drugs, "Drugs & Medications", "Prescription and over-the-counter medication recalls",
		[]string{"drug", "tablet", "capsule", "medication", "pharmaceutical", "prescription", "antibiotic", "aspirin", "ibuprofen", "acetaminophen", "injection", "oral solution", "ophthalmic"}},
	{MedicalDevices, "Medical Devices", "Medical device recalls including implants, diagnostic equipment, and surgical tools",
		[]string{"device", "implant", "catheter", "pump", "monitor", "ventilator", "defibrillator", "pacemaker", "stent", "surgical", "diagnostic", "infusion", "syringe", "needle", "test kit", "glucose", "blood pressure"}},
	{Vehicles, "Vehicles", "Vehicle safety recalls from NHTSA including cars, trucks, motorcycles, and equipment",
		[]string{"vehicle", "car", "truck", "suv", "sedan", "motorcycle", "bus", "trailer", "tire", "airbag", "seatbelt", "brake", "steering", "engine", "transmission", "fuel system"}},
	{Children, "Children & Baby Products", "Children and baby product recalls including toys, cribs, strollers, and car seats",
		[]string{"child", "infant", "baby", "toddler", "crib", "stroller", "car seat", "highchair", "toy", "pacifier", "bottle", "nursery", "playpen", "swing", "bassinet", "bouncer"}},
	{Electronics, "Electronics", "Electronics recalls including batteries, chargers, and consumer devices",
		[]string{"battery", "charger", "laptop", "phone", "tablet", "computer", "power supply", "adapter", "cable", "speaker", "headphone", "bluetooth", "wireless", "usb", "lithium"}},
	{Household, "Household Products", "Household product recalls including furniture, mattresses, and home goods",
		[]string{"furniture", "mattress", "chair", "table", "shelf", "dresser", "bed", "sofa", "couch", "cabinet", "drawer", "desk", "lamp", "candle", "curtain", "rug", "carpet", "blind"}},
	{Outdoor, "Outdoor & Sports", "Outdoor, sports, and recreational product recalls",
		[]string{"bicycle", "bike", "helmet", "camping", "hiking", "climbing", "kayak", "boat", "pool", "trampoline", "playground", "golf", "fitness", "exercise", "scooter", "skateboard", "atv"}},
	{Cosmetics, "Cosmetics & Personal Care", "Cosmetics and personal care product recalls",
		[]string{"cosmetic", "shampoo", "lotion", "cream", "sunscreen", "makeup", "lipstick", "nail", "hair", "skin", "perfume", "deodorant", "soap", "body wash", "toothpaste"}},
	{Supplements, "Dietary Supplements", "Dietary supplement recalls including vitamins, herbs, and protein products",
		[]string{"supplement", "vitamin", "mineral", "protein", "herbal", "probiotic", "omega", "dietary", "weight loss", "energy", "amino acid"}},
	{MeatPoultry, "Meat & Poultry", "USDA-regulated meat, poultry, and processed meat product recalls",
		[]string{"usda", "fsis", "ground beef", "ground turkey", "sausage", "deli meat", "hot dog", "ham", "bacon", "jerky", "ready-to-eat"}},
	{Appliances, "Appliances", "Home and kitchen appliance recalls",
		[]string{"appliance", "microwave", "oven", "stove", "dishwasher", "refrigerator", "freezer", "washer", "dryer", "heater", "air conditioner", "fan", "blender", "toaster", "coffee maker", "pressure cooker"}},
}

// Rows returns the categories as store rows with the given counts.
func Rows(counts map[string]int) []models.Category {
	out := make([]models.Category, 0, len(Categories))
	for _, c := range Categories {
		out = append(out, models.Category{
			CategoryID:   c.ID,
			CategoryName: c.Name,
			Slug:         c.ID,
			Description:  c.Description,
			RecallCount:  counts[c.ID],
		})
	}
	return out
}
