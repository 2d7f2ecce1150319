package main

import "github.com/cse341/records-api/internal/core/ports"

func sampleData() []ports.DataInput {
	return []ports.DataInput{
		{
			Title:       "Complete API Test Product",
			Description: "This product demonstrates full CRUD operations",
			Category:    "Technology",
			Price:       199.99,
			Tags:        []string{"complete", "crud", "test"},
			Author:      "Mario",
			Version:     "1.0",
		},
		{
			Title:       "Sample Web Application",
			Description: "A comprehensive web application for testing purposes",
			Category:    "Software",
			Price:       299.99,
			Tags:        []string{"web", "application", "demo"},
			Author:      "Jane Smith",
			Version:     "2.0",
		},
		{
			Title:       "Mobile App Development Kit",
			Description: "Complete toolkit for mobile application development",
			Category:    "Development",
			Price:       149.99,
			Tags:        []string{"mobile", "development", "toolkit"},
			Author:      "John Developer",
			Version:     "1.5",
		},
	}
}

func sampleUsers() []ports.UserInput {
	return []ports.UserInput{
		{
			FirstName:  "John",
			LastName:   "Doe",
			Email:      "john.doe@example.com",
			Phone:      "+1-555-123-4567",
			Role:       "Software Engineer",
			Department: "Engineering",
			CreatedBy:  "Admin",
		},
		{
			FirstName:  "Jane",
			LastName:   "Smith",
			Email:      "jane.smith@example.com",
			Phone:      "+1-555-987-6543",
			Role:       "Product Manager",
			Department: "Product",
			CreatedBy:  "HR",
		},
		{
			FirstName:  "Bob",
			LastName:   "Johnson",
			Email:      "bob.johnson@example.com",
			Phone:      "+1-555-456-7890",
			Role:       "Designer",
			Department: "Design",
			CreatedBy:  "Admin",
		},
	}
}
