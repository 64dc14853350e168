package catalog

func cpn(v float64) *float64 { return &v }

// Default builds the admissions catalog published for the current intake.
func Default() *Catalog {
	b := NewBuilder()

	// IT programmes appear for every field.
	b.Add(Department{Name: "Software Engineering", Category: CategoryIT, MinimumThreshold: cpn(78)}).
		Add(Department{Name: "Computer Science", Category: CategoryIT, MinimumThreshold: cpn(75)}).
		Add(Department{Name: "Information Technology", Category: CategoryIT, MinimumThreshold: cpn(74)}).
		Add(Department{Name: "Artificial Intelligence", Category: CategoryIT}).
		Add(Department{Name: "Data Science", Category: CategoryIT}).
		Add(Department{Name: "Cyber Security", Category: CategoryIT})

	b.Add(Department{Name: "Electronics", Category: CategoryEngineering, MinimumThreshold: cpn(72)}, FieldPreEngineering).
		Add(Department{Name: "Telecommunication", Category: CategoryEngineering, MinimumThreshold: cpn(70)}, FieldPreEngineering).
		Add(Department{Name: "Electrical Engineering", Category: CategoryEngineering}, FieldPreEngineering).
		Add(Department{Name: "Civil Engineering", Category: CategoryEngineering}, FieldPreEngineering).
		Add(Department{Name: "Petroleum and Natural Gas Engineering", Category: CategoryEngineering}, FieldPreEngineering).
		Add(Department{Name: "Physics", Category: CategoryNaturalScience}, FieldPreEngineering).
		Add(Department{Name: "Mathematics", Category: CategoryNaturalScience}, FieldPreEngineering, FieldGeneral).
		Add(Department{Name: "Statistics", Category: CategoryNaturalScience}, FieldPreEngineering, FieldGeneral).
		Add(Department{Name: "Geology", Category: CategoryNaturalScience}, FieldPreEngineering, FieldPreMedical)

	b.Add(Department{Name: "Pharm-D", Category: CategoryMedical, HighDemand: true, MinimumThreshold: cpn(80)}, FieldPreMedical).
		Add(Department{Name: "Biochemistry", Category: CategoryMedical}, FieldPreMedical).
		Add(Department{Name: "Microbiology", Category: CategoryMedical}, FieldPreMedical).
		Add(Department{Name: "Genetics", Category: CategoryMedical}, FieldPreMedical).
		Add(Department{Name: "Physiology", Category: CategoryMedical}, FieldPreMedical).
		Add(Department{Name: "Zoology", Category: CategoryMedical, MinimumThreshold: cpn(68)}, FieldPreMedical).
		Add(Department{Name: "Botany", Category: CategoryMedical, MinimumThreshold: cpn(65)}, FieldPreMedical).
		Add(Department{Name: "Chemistry", Category: CategoryNaturalScience, MinimumThreshold: cpn(68)}, FieldPreMedical, FieldPreEngineering)

	b.Add(Department{Name: "Law", Category: CategoryGeneral, HighDemand: true}, FieldGeneral).
		Add(Department{Name: "Commerce", Category: CategoryCommerce}, FieldGeneral).
		Add(Department{Name: "Business Administration", Category: CategoryCommerce}, FieldGeneral).
		Add(Department{Name: "Economics", Category: CategoryCommerce, MinimumThreshold: cpn(60)}, FieldGeneral).
		Add(Department{Name: "Public Administration", Category: CategoryCommerce, MinimumThreshold: cpn(63)}, FieldGeneral).
		Add(Department{Name: "English Literature", Category: CategoryArts, MinimumThreshold: cpn(62)}, FieldGeneral).
		Add(Department{Name: "International Relations", Category: CategoryArts, MinimumThreshold: cpn(58)}, FieldGeneral).
		Add(Department{Name: "Sociology", Category: CategoryArts, MinimumThreshold: cpn(56)}, FieldGeneral).
		Add(Department{Name: "Sindhi", Category: CategoryArts, MinimumThreshold: cpn(55)}, FieldGeneral).
		Add(Department{Name: "Urdu", Category: CategoryArts}, FieldGeneral).
		Add(Department{Name: "Psychology", Category: CategoryArts}, FieldGeneral).
		Add(Department{Name: "Media and Communication Studies", Category: CategoryArts}, FieldGeneral).
		Add(Department{Name: "Education", Category: CategoryGeneral}, FieldGeneral).
		Add(Department{Name: "Library and Information Science", Category: CategoryGeneral}, FieldGeneral)

	c, err := b.Build()
	if err != nil {
		// Static data; a failure here is a programming error.
		panic(err)
	}
	return c
}
