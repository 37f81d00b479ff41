package enrich

// Static resource tables. Small by design: enrichment is best-effort sugar,
// and an unknown name simply passes through.

// universityAdmissionsURLs maps a lowercase university name to its
// admissions page.
var universityAdmissionsURLs = map[string]string{
	"mit":                   "https://gradadmissions.mit.edu",
	"stanford":              "https://gradadmissions.stanford.edu",
	"harvard":               "https://gsas.harvard.edu/admissions",
	"carnegie mellon":       "https://www.cmu.edu/graduate/admissions",
	"berkeley":              "https://grad.berkeley.edu/admissions",
	"oxford":                "https://www.ox.ac.uk/admissions/graduate",
	"cambridge":             "https://www.postgraduate.study.cam.ac.uk",
	"eth zurich":            "https://ethz.ch/en/studies/master/application.html",
	"university of toronto": "https://www.sgs.utoronto.ca/admissions",
	"imperial college":      "https://www.imperial.ac.uk/study/pg/apply",
}

// facultyExamples maps a lowercase university name to example faculty
// contacts worth reaching out to.
var facultyExamples = map[string][]string{
	"mit": {
		"Prof. Regina Barzilay (CSAIL, AI for healthcare)",
		"Prof. Daniela Rus (CSAIL, robotics)",
	},
	"stanford": {
		"Prof. Fei-Fei Li (HAI, computer vision)",
		"Prof. Christopher Manning (NLP group)",
	},
}

// companyCareersURLs maps a lowercase company name to its careers page.
var companyCareersURLs = map[string]string{
	"google":     "https://careers.google.com",
	"microsoft":  "https://careers.microsoft.com",
	"amazon":     "https://www.amazon.jobs",
	"meta":       "https://www.metacareers.com",
	"apple":      "https://jobs.apple.com",
	"netflix":    "https://jobs.netflix.com",
	"stripe":     "https://stripe.com/jobs",
	"openai":     "https://openai.com/careers",
	"anthropic":  "https://www.anthropic.com/careers",
	"databricks": "https://www.databricks.com/company/careers",
}

// Intent keyword sets. A task matches the first intent whose keywords appear
// in its title or description.
type intent int

const (
	intentNone intent = iota
	intentUniversityResearch
	intentProfessorContact
	intentJobApplication
	intentCompanyResearch
	intentDeadlineCheck
	intentEventResearch
)

var intentKeywords = []struct {
	Intent   intent
	Keywords []string
}{
	{intentProfessorContact, []string{"professor", "faculty", "research group", "lab opening", "advisor"}},
	{intentUniversityResearch, []string{"university", "universities", "admission", "program requirements", "grad school"}},
	{intentJobApplication, []string{"apply to", "job application", "open role", "job posting", "submit your application"}},
	{intentCompanyResearch, []string{"company", "companies", "employer", "careers page"}},
	{intentDeadlineCheck, []string{"deadline", "due date", "closing date"}},
	{intentEventResearch, []string{"conference", "meetup", "career fair", "networking event"}},
}
