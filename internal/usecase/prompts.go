// Package usecase contains the application services: question generation,
// per-answer scoring, aggregation, analytics, auth, and resume analysis.
package usecase

import (
	"fmt"
	"math"
	"strings"

	"github.com/fairyhunter13/ai-interview-coach/internal/domain"
	"github.com/fairyhunter13/ai-interview-coach/pkg/textx"
)

// QuestionSpec carries the parameters of a question-generation request.
type QuestionSpec struct {
	Role           string
	Company        string
	JobDescription string
	ResumeText     string
	Type           string
	Difficulty     string
	Duration       string
	IncludeCoding  bool
	Language       string
	QuestionCount  int
}

// QuestionCountForDuration maps an interview duration label to the number of
// questions generated: short=5, medium=10, long=15. Unknown labels get 10.
func QuestionCountForDuration(duration string) int {
	switch strings.ToLower(duration) {
	case "short":
		return 5
	case "long":
		return 15
	default:
		return 10
	}
}

const resumeExcerptMax = 2000

// BuildQuestionsPrompt renders the question-generation prompt. The resume
// excerpt is included only when it is longer than 50 characters, capped at
// 2000.
func BuildQuestionsPrompt(spec QuestionSpec) string {
	resumeSection := "No resume provided - generate general questions for the role."
	if len(spec.ResumeText) > 50 {
		resumeSection = "CANDIDATE RESUME CONTEXT:\n" + textx.Truncate(spec.ResumeText, resumeExcerptMax)
	}
	codingCount := int(math.Ceil(float64(spec.QuestionCount) * 0.3))

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert technical interviewer creating %d interview questions for a %s position at %s.\n\n",
		spec.QuestionCount, spec.Role, spec.Company)
	fmt.Fprintf(&b, "CONTEXT:\n- Role: %s\n- Company: %s\n- Interview Type: %s\n- Difficulty: %s\n- Duration: %s (%d questions)\n- Include Coding: %t\n- Programming Language: %s\n\n",
		spec.Role, spec.Company, spec.Type, spec.Difficulty, spec.Duration, spec.QuestionCount, spec.IncludeCoding, spec.Language)
	fmt.Fprintf(&b, "JOB DESCRIPTION:\n%s\n\n%s\n\n", spec.JobDescription, resumeSection)
	fmt.Fprintf(&b, "INSTRUCTIONS:\nGenerate exactly %d interview questions in valid JSON format.\n\n", spec.QuestionCount)
	b.WriteString("RULES:\n")
	fmt.Fprintf(&b, "1. Questions must be relevant to the %s role and job description\n", spec.Role)
	if spec.IncludeCoding {
		fmt.Fprintf(&b, "2. Include %d coding questions\n", codingCount)
	} else {
		b.WriteString("2. Do not include coding questions\n")
	}
	b.WriteString("3. For coding questions: set \"coding\": true, expectedDuration: 900-2700 seconds\n")
	b.WriteString("4. For non-coding questions: set \"coding\": false, expectedDuration: 120-180 seconds\n")
	b.WriteString("5. Mix question types: technical concepts, problem-solving, experience-based, behavioral\n")
	fmt.Fprintf(&b, "6. Difficulty should match: %s\n", spec.Difficulty)
	b.WriteString("7. Return ONLY valid JSON array, no additional text\n\n")
	fmt.Fprintf(&b, "Required JSON format:\n[\n  {\n    \"id\": 1,\n    \"text\": \"Question text here\",\n    \"type\": %q,\n    \"coding\": false,\n    \"difficulty\": %q,\n    \"expectedDuration\": 120\n  }\n]\n\n", spec.Type, spec.Difficulty)
	b.WriteString("Generate the questions now:")
	return b.String()
}

// BuildFeedbackPrompt renders the per-answer scoring prompt. The candidate
// response is the submitted code for coding questions and the transcript
// text otherwise.
func BuildFeedbackPrompt(q domain.Question, a domain.Answer, sessionRole string) string {
	responseLabel := "CANDIDATE TRANSCRIPT"
	response := ""
	if q.Coding {
		responseLabel = "SUBMITTED CODE"
		response = a.Code
	} else if a.Transcript != nil {
		response = a.Transcript.Text
	}
	if a.Skipped {
		response = "(the candidate skipped this question)"
	} else if response == "" {
		response = "(no response was captured)"
	}

	var b strings.Builder
	b.WriteString("You are an expert interview coach evaluating one answer from a mock interview.\n\n")
	if sessionRole != "" {
		fmt.Fprintf(&b, "ROLE UNDER INTERVIEW: %s\n", sessionRole)
	}
	fmt.Fprintf(&b, "QUESTION (%s, %s): %s\n\n", q.Type, q.Difficulty, q.Text)
	fmt.Fprintf(&b, "%s:\n%s\n\n", responseLabel, response)
	b.WriteString("Score the answer from 0 to 100 and assess it. Be specific and constructive.\n\n")
	b.WriteString("Return ONLY one valid JSON object, no additional text:\n")
	b.WriteString(`{
  "score": 0,
  "assessment": "",
  "strengths": [],
  "improvements": [],
  "suggestions": [],
  "keywordsCovered": [],
  "missedOpportunities": [],
  "communicationScore": 0,
  "technicalScore": 0,
  "completeness": 0,
  "clarity": 0
}`)
	return b.String()
}

// BuildResumeAnalysisPrompt renders the ATS-style resume review prompt.
func BuildResumeAnalysisPrompt(resumeText, jobDescription string) string {
	var b strings.Builder
	b.WriteString("You are an experienced recruiter and ATS (Applicant Tracking System) Resume Analyzer.\n")
	b.WriteString("Your task is to evaluate the following resume against the job description.\n\n")
	fmt.Fprintf(&b, "Resume:\n%s\n\nJob Description:\n%s\n\n", resumeText, jobDescription)
	b.WriteString("Return a valid JSON object only with the following fields (strict JSON, no extra text, no code block):\n\n")
	b.WriteString(`{
  "ats_friendly": "Yes/No with explanation",
  "fit_for_role": "Strong / Moderate / Weak (with reasoning)",
  "missing_keywords": ["list", "of", "missing", "skills"],
  "improvements": ["list of suggestions for resume improvement"],
  "clarity": "Readable / Needs better formatting / Poor",
  "achievements": "Yes/No (with explanation)",
  "sections": {
    "summary": true/false,
    "skills": true/false,
    "experience": true/false,
    "education": true/false,
    "projects": true/false
  },
  "red_flags": ["list of issues in the resume"],
  "formatting": "Good / Inconsistent / Overloaded",
  "resume_length": "1 page / 2 pages / Too long",
  "soft_skills": ["list of soft skills found"],
  "score": number (0-100)
}`)
	return b.String()
}
