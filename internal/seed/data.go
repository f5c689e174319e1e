package seed

import (
	"github.com/cadetops/corpshq/internal/award"
	"github.com/cadetops/corpshq/internal/cadet"
	"github.com/cadetops/corpshq/internal/unit"
)

var sampleCadets = []cadet.Cadet{
	{
		Name:     "Sarah Johnson",
		Rank:     "Cadet Colonel",
		Unit:     "Alpha Company",
		Grade:    "12th",
		GPA:      3.8,
		Phone:    "(555) 123-4567",
		Email:    "sarah.johnson@school.edu",
		Address:  "123 Main St, Anytown, ST 12345",
		Awards:   []string{"Leadership Excellence", "Academic Achievement", "Community Service"},
		JoinDate: "2021-08-15",
		Status:   "Active",
	},
	{
		Name:     "Michael Chen",
		Rank:     "Cadet Major",
		Unit:     "Bravo Company",
		Grade:    "11th",
		GPA:      3.6,
		Phone:    "(555) 234-5678",
		Email:    "michael.chen@school.edu",
		Address:  "456 Oak Ave, Anytown, ST 12345",
		Awards:   []string{"Drill Team Excellence", "Physical Fitness"},
		JoinDate: "2022-08-20",
		Status:   "Active",
	},
	{
		Name:     "Emily Rodriguez",
		Rank:     "Cadet Captain",
		Unit:     "Charlie Company",
		Grade:    "10th",
		GPA:      3.9,
		Phone:    "(555) 345-6789",
		Email:    "emily.rodriguez@school.edu",
		Address:  "789 Pine St, Anytown, ST 12345",
		Awards:   []string{"Honor Guard", "Academic Excellence"},
		JoinDate: "2023-08-18",
		Status:   "Active",
	},
	{
		Name:     "David Thompson",
		Rank:     "Cadet Lieutenant",
		Unit:     "Alpha Company",
		Grade:    "9th",
		GPA:      3.4,
		Phone:    "(555) 456-7890",
		Email:    "david.thompson@school.edu",
		Address:  "321 Elm St, Anytown, ST 12345",
		Awards:   []string{"Marksmanship"},
		JoinDate: "2024-08-15",
		Status:   "Active",
	},
}

var sampleUnits = []unit.Unit{
	{
		Name:        "Alpha Company",
		Type:        "Company",
		Commander:   "Cadet Colonel Sarah Johnson",
		Strength:    62,
		Location:    "Building A, Room 101",
		Established: "2020-08-15",
		Motto:       "First in Excellence",
		Awards:      []string{"Honor Unit", "Drill Excellence", "Community Service"},
		Platoons: []unit.Platoon{
			{Name: "1st Platoon", Leader: "Cadet Major Michael Chen", Strength: 31},
			{Name: "2nd Platoon", Leader: "Cadet Major Emily Rodriguez", Strength: 31},
		},
	},
	{
		Name:        "Bravo Company",
		Type:        "Company",
		Commander:   "Cadet Colonel David Thompson",
		Strength:    58,
		Location:    "Building A, Room 102",
		Established: "2020-08-15",
		Motto:       "Brave and Bold",
		Awards:      []string{"Physical Fitness", "Leadership Excellence"},
		Platoons: []unit.Platoon{
			{Name: "1st Platoon", Leader: "Cadet Major Jessica Wilson", Strength: 29},
			{Name: "2nd Platoon", Leader: "Cadet Major Robert Garcia", Strength: 29},
		},
	},
	{
		Name:        "Charlie Company",
		Type:        "Company",
		Commander:   "Cadet Colonel Amanda Martinez",
		Strength:    54,
		Location:    "Building A, Room 103",
		Established: "2021-08-20",
		Motto:       "Courage and Honor",
		Awards:      []string{"Academic Achievement", "Color Guard Excellence"},
		Platoons: []unit.Platoon{
			{Name: "1st Platoon", Leader: "Cadet Major Christopher Lee", Strength: 27},
			{Name: "2nd Platoon", Leader: "Cadet Major Ashley Brown", Strength: 27},
		},
	},
	{
		Name:        "Honor Guard",
		Type:        "Special Unit",
		Commander:   "Cadet Captain Maria Gonzalez",
		Strength:    12,
		Location:    "Building A, Room 105",
		Established: "2020-09-01",
		Motto:       "Honor Above All",
		Awards:      []string{"Ceremonial Excellence", "Precision Drill"},
	},
	{
		Name:        "Drill Team",
		Type:        "Special Unit",
		Commander:   "Cadet Captain James Anderson",
		Strength:    16,
		Location:    "Gymnasium",
		Established: "2020-09-15",
		Motto:       "Precision in Motion",
		Awards:      []string{"State Champions", "Regional Excellence"},
	},
}

var sampleAwards = []award.Award{
	{
		Name:        "Academic Excellence Ribbon",
		Type:        "Ribbon",
		Category:    "Academic",
		Description: "Awarded for maintaining a GPA of 3.5 or higher",
		Criteria:    "GPA ≥ 3.5 for full semester",
		Recipients: []award.Recipient{
			{Name: "Sarah Johnson", Date: "2024-01-15", Unit: "Alpha Company"},
			{Name: "Michael Chen", Date: "2024-01-15", Unit: "Bravo Company"},
			{Name: "Emily Rodriguez", Date: "2024-01-15", Unit: "Charlie Company"},
		},
		TotalAwarded: 45,
		Color:        "blue",
	},
	{
		Name:        "Leadership Excellence Medal",
		Type:        "Medal",
		Category:    "Leadership",
		Description: "Recognizes outstanding leadership qualities and achievements",
		Criteria:    "Demonstrated exceptional leadership in unit activities",
		Recipients: []award.Recipient{
			{Name: "David Thompson", Date: "2024-02-01", Unit: "Alpha Company"},
			{Name: "Jessica Wilson", Date: "2024-02-01", Unit: "Bravo Company"},
		},
		TotalAwarded: 12,
		Color:        "gold",
	},
	{
		Name:        "Physical Fitness Award",
		Type:        "Certificate",
		Category:    "Physical Fitness",
		Description: "Awarded for exceptional performance in physical fitness tests",
		Criteria:    "Score 90+ on JROTC Physical Fitness Test",
		Recipients: []award.Recipient{
			{Name: "Robert Garcia", Date: "2024-01-20", Unit: "Bravo Company"},
			{Name: "Amanda Martinez", Date: "2024-01-20", Unit: "Charlie Company"},
			{Name: "Christopher Lee", Date: "2024-01-20", Unit: "Alpha Company"},
		},
		TotalAwarded: 28,
		Color:        "green",
	},
	{
		Name:        "Community Service Ribbon",
		Type:        "Ribbon",
		Category:    "Service",
		Description: "Recognizes significant contribution to community service",
		Criteria:    "40+ hours of documented community service",
		Recipients: []award.Recipient{
			{Name: "Ashley Brown", Date: "2024-02-10", Unit: "Charlie Company"},
			{Name: "Maria Gonzalez", Date: "2024-02-10", Unit: "Honor Guard"},
		},
		TotalAwarded: 33,
		Color:        "purple",
	},
	{
		Name:        "Drill Team Excellence Trophy",
		Type:        "Trophy",
		Category:    "Competition",
		Description: "Awarded to outstanding drill team performers",
		Criteria:    "Top performance in regional drill competition",
		Recipients: []award.Recipient{
			{Name: "James Anderson", Date: "2024-03-01", Unit: "Drill Team"},
		},
		TotalAwarded: 8,
		Color:        "red",
	},
}
