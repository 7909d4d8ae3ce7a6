package report

// Canonical discipline ids. Every report carries exactly these nine, in this
// order.
const (
	D0 = "D0"
	D1 = "D1"
	D2 = "D2"
	D3 = "D3"
	D4 = "D4"
	D5 = "D5"
	D6 = "D6"
	D7 = "D7"
	D8 = "D8"
)

var catalog = []Discipline{
	{
		ID:          D0,
		Title:       "D0: Plan",
		Description: "Is the 8D process appropriate? Plan for the 8D process and identify prerequisites.",
	},
	{
		ID:          D1,
		Title:       "D1: Build Your Team",
		Description: "Establish a small group of people with the product/process knowledge, allocated time, authority, and skill to solve the problem and implement corrective actions.",
	},
	{
		ID:          D2,
		Title:       "D2: Describe the Problem",
		Description: "Describe the internal or external problem by identifying \"what is wrong with what\" and detailing the problem in quantifiable terms.",
	},
	{
		ID:          D3,
		Title:       "D3: Develop a Containment Plan",
		Description: "Define and implement containment actions to isolate the problem from any customer.",
	},
	{
		ID:          D4,
		Title:       "D4: Identify & Verify Root Causes",
		Description: "Identify all potential causes that could explain why the problem occurred. Test each potential cause against the problem description and data.",
	},
	{
		ID:          D5,
		Title:       "D5: Choose & Verify Permanent Corrective Actions (PCAs)",
		Description: "Select the best permanent corrective action to remove the root cause. Verify that the decision will be successful.",
	},
	{
		ID:          D6,
		Title:       "D6: Implement & Validate PCAs",
		Description: "Plan and implement the selected permanent corrective actions. Remove the containment actions.",
	},
	{
		ID:          D7,
		Title:       "D7: Prevent Recurrence",
		Description: "Modify the necessary systems, including policies, practices, and procedures, to prevent recurrence of this and similar problems.",
	},
	{
		ID:          D8,
		Title:       "D8: Congratulate Your Team",
		Description: "Recognize the collective efforts of the team. Share knowledge and learning.",
	},
}

// Disciplines returns a fresh copy of the canonical discipline catalog, all
// content empty and nothing completed.
func Disciplines() []Discipline {
	out := make([]Discipline, len(catalog))
	copy(out, catalog)
	return out
}
