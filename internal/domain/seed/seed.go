// Package seed holds the fixed content loaded into a fresh repository.
package seed

import "github.com/ecosort/ecosort/internal/domain/model"

// Categories returns the sorting guide catalogue.
func Categories() []model.CategoryInfo {
	return []model.CategoryInfo{
		{ID: model.CategoryPlastic, Name: "Plastic & Polymers", Description: "Bottles, containers, packaging materials"},
		{ID: model.CategoryGlass, Name: "Glass & Crystal", Description: "Jars, bottles, transparent containers"},
		{ID: model.CategoryOrganic, Name: "Organic & Compost", Description: "Food scraps, yard waste, biodegradables"},
		{ID: model.CategoryEWaste, Name: "Electronic Waste", Description: "Devices, batteries, cables, components"},
	}
}

// QuizQuestions returns one starter question per category.
func QuizQuestions() []model.NewQuizQuestion {
	one := 1
	return []model.NewQuizQuestion{
		{
			Question:      "Which bin should plastic bottles go into?",
			Options:       []string{"General Waste", "Blue Recycling Bin", "Green Compost", "Red Hazardous"},
			CorrectAnswer: &one,
			Category:      model.CategoryPlastic,
			Difficulty:    model.DifficultyEasy,
		},
		{
			Question:      "What should you do before recycling glass jars?",
			Options:       []string{"Leave labels on", "Remove lids and clean", "Break into pieces", "Nothing special"},
			CorrectAnswer: &one,
			Category:      model.CategoryGlass,
			Difficulty:    model.DifficultyMedium,
		},
		{
			Question:      "Which of these items can go in organic waste?",
			Options:       []string{"Meat scraps", "Coffee grounds", "Plastic bags", "Aluminum cans"},
			CorrectAnswer: &one,
			Category:      model.CategoryOrganic,
			Difficulty:    model.DifficultyEasy,
		},
		{
			Question:      "What is the most important step before disposing of old electronics?",
			Options:       []string{"Remove batteries", "Wipe personal data", "Break them down", "Clean thoroughly"},
			CorrectAnswer: &one,
			Category:      model.CategoryEWaste,
			Difficulty:    model.DifficultyHard,
		},
	}
}

// RecyclingRules returns one sorting rule per category.
func RecyclingRules() []model.NewRecyclingRule {
	return []model.NewRecyclingRule{
		{
			Category:     model.CategoryPlastic,
			Title:        "Plastic Waste Sorting",
			Description:  "Learn proper plastic recycling techniques",
			Instructions: []string{"Remove caps and lids", "Rinse clean of food residue", "Check recycling number", "Place in designated bin"},
			WhatGoesIn:   []string{"Water bottles", "Food containers", "Milk jugs", "Detergent bottles"},
			WhatStaysOut: []string{"Plastic bags", "Styrofoam", "Broken plastic toys"},
			Tips:         []string{"Plastic bottles can be recycled multiple times", "Look for the recycling number on the bottom"},
		},
		{
			Category:     model.CategoryGlass,
			Title:        "Glass Waste Sorting",
			Description:  "Glass recycling guidelines and best practices",
			Instructions: []string{"Remove all caps and lids", "Empty contents completely", "Quick rinse (no soap needed)", "Sort by color if required"},
			WhatGoesIn:   []string{"Glass bottles", "Food jars", "Beverage containers", "Cosmetic jars"},
			WhatStaysOut: []string{"Window glass", "Light bulbs", "Mirrors", "Ceramics"},
			Tips:         []string{"Glass can be recycled infinitely without losing quality", "It takes about 30 days to go from bin to shelf"},
		},
		{
			Category:     model.CategoryOrganic,
			Title:        "Organic Waste Composting",
			Description:  "Composting organic waste for environmental benefit",
			Instructions: []string{"Separate food scraps", "Add yard waste", "Keep meat and dairy out", "Turn compost regularly"},
			WhatGoesIn:   []string{"Fruit and vegetable scraps", "Coffee grounds and filters", "Eggshells", "Yard trimmings"},
			WhatStaysOut: []string{"Meat and dairy products", "Pet waste", "Diseased plants", "Treated wood"},
			Tips:         []string{"Organic waste makes up 30% of household trash", "Compost creates nutrient-rich soil"},
		},
		{
			Category:     model.CategoryEWaste,
			Title:        "Electronic Waste (E-waste)",
			Description:  "Safe disposal of electronic devices and components",
			Instructions: []string{"Wipe personal data", "Remove batteries if possible", "Take to certified center", "Never put in regular trash"},
			WhatGoesIn:   []string{"Old smartphones and tablets", "Computer equipment", "Batteries (all types)", "Small appliances"},
			WhatStaysOut: []string{"Items with personal data intact", "Damaged batteries", "Large appliances without arrangement"},
			Tips:         []string{"E-waste contains valuable metals like gold and silver", "Proper recycling prevents toxic materials from landfills"},
		},
	}
}

// RecyclingCenters is empty: centers are added through the admin API.
func RecyclingCenters() []model.NewRecyclingCenter {
	return nil
}
