package templates

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pathforge/taskpipe-backend/internal/platform/logger"
	"github.com/pathforge/taskpipe-backend/internal/types"
)

// Registry holds the authored template library. Built-in templates can be
// overridden or extended from a YAML file (TASK_TEMPLATES_PATH).
type Registry struct {
	log       *logger.Logger
	templates []Template
	byID      map[string]int
}

func NewRegistry(log *logger.Logger) *Registry {
	r := &Registry{
		log:  log.With("service", "TemplateRegistry"),
		byID: map[string]int{},
	}
	for _, t := range builtinTemplates {
		r.add(t)
	}
	return r
}

func (r *Registry) add(t Template) {
	if idx, ok := r.byID[t.ID]; ok {
		r.templates[idx] = t
		return
	}
	r.byID[t.ID] = len(r.templates)
	r.templates = append(r.templates, t)
}

// LoadYAML merges templates from a YAML file into the registry. Entries with
// an existing ID replace the built-in; new IDs are appended.
func (r *Registry) LoadYAML(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read template file: %w", err)
	}
	var loaded []Template
	if err := yaml.Unmarshal(raw, &loaded); err != nil {
		return fmt.Errorf("parse template file: %w", err)
	}
	merged := 0
	for _, t := range loaded {
		if t.ID == "" || t.Title == "" {
			r.log.Warn("skipping template without id or title", "id", t.ID)
			continue
		}
		if t.TimeboxMinutes <= 0 {
			t.TimeboxMinutes = 30
		}
		if t.Priority <= 0 {
			t.Priority = 3
		}
		if t.TaskType == "" {
			t.TaskType = types.TaskTypeCopilot
		}
		r.add(t)
		merged++
	}
	r.log.Info("template overrides loaded", "path", path, "count", merged)
	return nil
}

// ByMilestoneType returns templates for one milestone type in registry order.
func (r *Registry) ByMilestoneType(mt MilestoneType) []Template {
	var out []Template
	for _, t := range r.templates {
		if t.MilestoneType == mt {
			out = append(out, t)
		}
	}
	return out
}

func (r *Registry) All() []Template {
	out := make([]Template, len(r.templates))
	copy(out, r.templates)
	return out
}

var builtinTemplates = []Template{
	// ---- study: university research ----
	{
		ID: "research_university_shortlist", MilestoneType: MilestoneUniversityResearch,
		Title:        "Build a shortlist of 8 universities offering {degree} in {field}",
		Description:  "Compare tuition, program length, and admission requirements in a spreadsheet.[?country] Focus on programs in {country}.[/?]",
		RequiredVars: []string{"degree", "field"},
		TimeboxMinutes: 60, Priority: 5, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "research_admission_requirements", MilestoneType: MilestoneUniversityResearch,
		Title:        "List admission requirements for {university} {degree} program",
		Description:  "Record GPA cutoffs, test scores, and document checklist from the official admissions page.",
		RequiredVars: []string{"university", "degree"},
		TimeboxMinutes: 30, Priority: 4, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "research_budget_fit", MilestoneType: MilestoneUniversityResearch,
		Title:        "Compare total first-year cost across 5 {field} programs",
		Description:  "Include tuition, living costs, and insurance per program in one sheet.",
		RequiredVars: []string{"field"},
		TimeboxMinutes: 45, Priority: 3, TaskType: types.TaskTypeCopilot,
		BudgetTiers: []types.BudgetTier{types.BudgetTierBudget, types.BudgetTierStandard},
	},
	{
		ID: "research_program_rankings_quick", MilestoneType: MilestoneUniversityResearch,
		Title:        "Bookmark the top 10 ranked {field} graduate programs",
		Description:  "Save each program page to a reading list for the shortlist pass.",
		RequiredVars: []string{"field"},
		TimeboxMinutes: 20, Priority: 2, TaskType: types.TaskTypeAuto,
	},

	// ---- study: exam prep ----
	{
		ID: "exam_diagnostic_test", MilestoneType: MilestoneExamPrep,
		Title:        "Complete one full-length diagnostic practice test for your target exam",
		Description:  "Score each section and note the two weakest areas.",
		TimeboxMinutes: 90, Priority: 5, TaskType: types.TaskTypeManual,
		WeaknessTags: []string{"test", "exam", "ielts", "toefl", "gre"},
	},
	{
		ID: "exam_study_schedule", MilestoneType: MilestoneExamPrep,
		Title:        "Draft a 4-week study schedule targeting your weakest exam section",
		Description:  "Block 45-minute sessions on specific days and add them to your calendar.",
		TimeboxMinutes: 30, Priority: 4, TaskType: types.TaskTypeCopilot,
		WeaknessTags: []string{"test", "exam"},
	},
	{
		ID: "exam_vocab_quick", MilestoneType: MilestoneExamPrep,
		Title:        "Review 25 flashcards from the academic word list",
		Description:  "Mark the ones you missed for tomorrow's repeat pass.",
		TimeboxMinutes: 15, Priority: 2, TaskType: types.TaskTypeManual,
	},

	// ---- study: SOP drafting ----
	{
		ID: "sop_outline", MilestoneType: MilestoneSOPDrafting,
		Title:        "Outline your statement of purpose for {degree} in {field}",
		Description:  "Write one bullet per paragraph: hook, background, motivation, fit, goals.[?startup_name] Include the {startup_name} story as the hook.[/?]",
		RequiredVars: []string{"degree", "field"},
		TimeboxMinutes: 45, Priority: 5, TaskType: types.TaskTypeCopilot,
		WeaknessTags: []string{"writing", "essay", "sop"},
	},
	{
		ID: "sop_first_draft", MilestoneType: MilestoneSOPDrafting,
		Title:        "Write the first 500 words of your statement of purpose",
		Description:  "Draft from the outline without editing; flag gaps with brackets.",
		TimeboxMinutes: 60, Priority: 5, TaskType: types.TaskTypeManual,
		WeaknessTags: []string{"writing", "essay", "sop"},
	},
	{
		ID: "sop_peer_review_quick", MilestoneType: MilestoneSOPDrafting,
		Title:        "Send your SOP draft to 2 reviewers with a feedback deadline",
		Description:  "Ask for comments on clarity and fit within one week.",
		TimeboxMinutes: 15, Priority: 3, TaskType: types.TaskTypeAuto,
	},

	// ---- study: recommendations ----
	{
		ID: "reco_shortlist_referees", MilestoneType: MilestoneRecommendations,
		Title:        "List 4 potential recommenders with contact details and context",
		Description:  "For each, note the project they know you from and their likely angle.",
		TimeboxMinutes: 30, Priority: 4, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "reco_request_email", MilestoneType: MilestoneRecommendations,
		Title:        "Email your first-choice recommender with a tailored request",
		Description:  "Attach your CV and a one-paragraph summary of the program and deadline.",
		TimeboxMinutes: 25, Priority: 5, TaskType: types.TaskTypeCopilot,
	},

	// ---- study: applications ----
	{
		ID: "application_account_setup", MilestoneType: MilestoneApplications,
		Title:        "Create application portal accounts for your top 3 universities",
		Description:  "Store credentials in your password manager and note each deadline.",
		TimeboxMinutes: 30, Priority: 4, TaskType: types.TaskTypeManual,
	},
	{
		ID: "application_document_checklist", MilestoneType: MilestoneApplications,
		Title:        "Assemble the document checklist for the {university} application",
		Description:  "Mark each required document as ready, in-progress, or missing.",
		RequiredVars: []string{"university"},
		TimeboxMinutes: 25, Priority: 5, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "application_submit_first", MilestoneType: MilestoneApplications,
		Title:        "Submit your strongest complete application before its deadline",
		Description:  "Do a final proofread of every free-text field before paying the fee.",
		TimeboxMinutes: 60, Priority: 5, TaskType: types.TaskTypeManual, Urgent: true,
	},

	// ---- study: scholarships ----
	{
		ID: "scholarship_search", MilestoneType: MilestoneScholarships,
		Title:        "Compile 6 scholarships matching {degree} applicants in {field}",
		Description:  "Record award size, deadline, and eligibility in a spreadsheet.",
		RequiredVars: []string{"degree", "field"},
		TimeboxMinutes: 45, Priority: 4, TaskType: types.TaskTypeCopilot,
		BudgetTiers: []types.BudgetTier{types.BudgetTierBudget, types.BudgetTierStandard},
	},
	{
		ID: "scholarship_essay_quick", MilestoneType: MilestoneScholarships,
		Title:        "Draft the opening paragraph for one scholarship essay",
		Description:  "Reuse your SOP hook and tailor it to the sponsor's mission.",
		TimeboxMinutes: 25, Priority: 3, TaskType: types.TaskTypeManual,
	},

	// ---- study: visa ----
	{
		ID: "visa_requirements", MilestoneType: MilestoneVisaProcess,
		Title:        "List student visa requirements for {country} with processing times",
		Description:  "Use the official immigration site; note the financial-proof threshold.",
		RequiredVars: []string{"country"},
		TimeboxMinutes: 40, Priority: 4, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "visa_financial_docs", MilestoneType: MilestoneVisaProcess,
		Title:        "Gather bank statements covering the visa financial-proof window",
		Description:  "Request any missing statements from your bank today.",
		TimeboxMinutes: 30, Priority: 3, TaskType: types.TaskTypeManual,
	},

	// ---- career: linkedin ----
	{
		ID: "linkedin_headline", MilestoneType: MilestoneLinkedIn,
		Title:        "Rewrite your LinkedIn headline to target {target_role} roles",
		Description:  "Lead with the role, add one quantified achievement.[?startup_name] Mention {startup_name}.[/?]",
		RequiredVars: []string{"target_role"},
		TimeboxMinutes: 20, Priority: 4, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "linkedin_about_section", MilestoneType: MilestoneLinkedIn,
		Title:        "Rewrite your LinkedIn about section with 3 quantified achievements",
		Description:  "Keep it under 150 words and end with what you are looking for.",
		TimeboxMinutes: 40, Priority: 3, TaskType: types.TaskTypeCopilot,
	},

	// ---- career: resume ----
	{
		ID: "resume_tailor", MilestoneType: MilestoneResumeUpdate,
		Title:        "Tailor your resume for {target_role} positions in {field}",
		Description:  "Mirror 5 keywords from a live job posting in your bullet points.",
		RequiredVars: []string{"target_role", "field"},
		TimeboxMinutes: 60, Priority: 5, TaskType: types.TaskTypeCopilot,
		WeaknessTags: []string{"resume", "cv"},
	},
	{
		ID: "resume_quantify_quick", MilestoneType: MilestoneResumeUpdate,
		Title:        "Add numbers to 3 resume bullets that currently have none",
		Description:  "Estimate scale, frequency, or impact where exact figures are unavailable.",
		TimeboxMinutes: 25, Priority: 4, TaskType: types.TaskTypeManual,
		WeaknessTags: []string{"resume", "cv"},
	},
	{
		ID: "resume_ats_check", MilestoneType: MilestoneResumeUpdate,
		Title:        "Run your resume through an ATS checker and fix the top 3 issues",
		Description:  "Save the before and after scores for comparison.",
		TimeboxMinutes: 30, Priority: 3, TaskType: types.TaskTypeCopilot,
	},

	// ---- career: job search ----
	{
		ID: "jobsearch_company_list", MilestoneType: MilestoneJobSearch,
		Title:        "Build a list of 15 companies hiring {target_role} candidates",
		Description:  "Track company, open role link, and referral contact in a spreadsheet.",
		RequiredVars: []string{"target_role"},
		TimeboxMinutes: 45, Priority: 5, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "jobsearch_alerts_quick", MilestoneType: MilestoneJobSearch,
		Title:        "Set up job alerts for {target_role} on 3 job boards",
		Description:  "Use the same title and location filters on each board.",
		RequiredVars: []string{"target_role"},
		TimeboxMinutes: 15, Priority: 3, TaskType: types.TaskTypeAuto,
	},
	{
		ID: "jobsearch_salary_research", MilestoneType: MilestoneJobSearch,
		Title:        "Record the salary range for {target_role} across 5 postings",
		Description:  "Note base, bonus, and equity where listed; compute the median.",
		RequiredVars: []string{"target_role"},
		TimeboxMinutes: 30, Priority: 2, TaskType: types.TaskTypeCopilot,
	},

	// ---- career: networking ----
	{
		ID: "network_warm_contacts", MilestoneType: MilestoneNetworking,
		Title:        "List 10 people in your network who work in {field}",
		Description:  "Rank by how warm the connection is and note the last contact date.",
		RequiredVars: []string{"field"},
		TimeboxMinutes: 30, Priority: 4, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "network_outreach_email", MilestoneType: MilestoneNetworking,
		Title:        "Send a re-connection message to your 2 warmest contacts",
		Description:  "Reference something specific from your last interaction; ask for a 20-minute call.",
		TimeboxMinutes: 20, Priority: 4, TaskType: types.TaskTypeCopilot,
	},
	{
		ID: "network_event_quick", MilestoneType: MilestoneNetworking,
		Title:        "Register for one {field} meetup or conference this month",
		Description:  "Add it to your calendar with a reminder two days before.",
		RequiredVars: []string{"field"},
		TimeboxMinutes: 15, Priority: 2, TaskType: types.TaskTypeManual,
	},

	// ---- career: applications ----
	{
		ID: "jobapp_submit_batch", MilestoneType: MilestoneJobApps,
		Title:        "Apply to 3 open {target_role} roles from your company list",
		Description:  "Tailor the first resume line and cover note per company.",
		RequiredVars: []string{"target_role"},
		TimeboxMinutes: 75, Priority: 5, TaskType: types.TaskTypeManual, Urgent: true,
	},
	{
		ID: "jobapp_tracker_quick", MilestoneType: MilestoneJobApps,
		Title:        "Update your application tracker with status and next steps",
		Description:  "Flag any application idle for more than 10 days for follow-up.",
		TimeboxMinutes: 15, Priority: 3, TaskType: types.TaskTypeManual,
	},
	{
		ID: "jobapp_followup_email", MilestoneType: MilestoneJobApps,
		Title:        "Email a follow-up on your oldest pending application",
		Description:  "Keep it to 4 sentences and restate your strongest qualification.",
		TimeboxMinutes: 20, Priority: 3, TaskType: types.TaskTypeCopilot,
	},

	// ---- career: interview prep ----
	{
		ID: "interview_story_bank", MilestoneType: MilestoneInterviewPrep,
		Title:        "Write 5 STAR stories covering your strongest projects",
		Description:  "One paragraph each: situation, task, action, result with a number.[?startup_name] Include a {startup_name} story.[/?]",
		TimeboxMinutes: 60, Priority: 5, TaskType: types.TaskTypeCopilot,
		WeaknessTags: []string{"interview", "speaking"},
	},
	{
		ID: "interview_mock_session", MilestoneType: MilestoneInterviewPrep,
		Title:        "Schedule a mock interview for {target_role} with a peer",
		Description:  "Record it and note 3 answers to tighten.",
		RequiredVars: []string{"target_role"},
		TimeboxMinutes: 45, Priority: 4, TaskType: types.TaskTypeManual,
		WeaknessTags: []string{"interview", "speaking"},
	},
	{
		ID: "interview_questions_quick", MilestoneType: MilestoneInterviewPrep,
		Title:        "Prepare 5 questions to ask interviewers at target companies",
		Description:  "Base at least 2 on recent company news.",
		TimeboxMinutes: 20, Priority: 2, TaskType: types.TaskTypeCopilot,
	},
}
