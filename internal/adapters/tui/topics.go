package tui

// Topic shortcuts shown in the sidebar; picking one sends
// "Tell me about <label>".
var suggestedTopics = []string{
	"ITR Filing Guide",
	"50/30/20 Budgeting",
	"SIP & Index Funds",
	"Opening a Bank Account",
	"Insurance Basics",
	"KYC & Documents",
}

// Quick-start queries offered on a fresh session.
var quickStartQueries = []string{
	"How to start investing in India?",
	"What is a good credit score?",
	"Explain the 50/30/20 rule.",
	"How to file ITR online?",
	"What are the benefits of a Public Provident Fund (PPF)?",
}

// Official portals listed in the sidebar footer.
var officialPortals = []struct {
	Name string
	URL  string
}{
	{"Income Tax Department", "https://www.incometax.gov.in"},
	{"RBI", "https://www.rbi.org.in"},
	{"SEBI", "https://www.sebi.gov.in"},
	{"UIDAI", "https://uidai.gov.in"},
}
