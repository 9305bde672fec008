package gemini

import "fmt"

// Prompt templates are fixed collaborators: the wording drives the
// upstream model and is not part of the service logic.

func EducationPrompt(subject, duration string, lessonDuration, questionCount int) string {
	return fmt.Sprintf(`Create a complete education program on "%s" spanning %s.
The program must contain:

1. Learning objectives (concrete and measurable)
2. Courses in the program, ordered from fundamentals to mastery
3. Weekly topics and subtopics for every course, in chronological order
4. Practical projects for hands-on learning
5. Assessment criteria with objective measurement methods
6. Resources (books, videos, online platforms)

Also produce, for every course:

1. Lesson objectives
2. Introduction (5%%)
3. Main content (50%%)
4. Practical exercises (40%%)
5. Review and closing (5%%)
6. Homework and suggestions

Each week has one %d-minute lesson. Prepare %d open-ended questions per
course in the format:

Question: [question text]
Answer: [answer text]

Write everything in detail and in a well-organized layout.`,
		subject, duration, lessonDuration, questionCount)
}

func CurriculumPrompt(subject, duration string, lessonDuration, questionCount int) string {
	return fmt.Sprintf(`Create a curriculum on "%s" spanning %s. The curriculum must contain:

1. Learning objectives (concrete and measurable)
2. Courses, ordered from fundamentals to mastery
3. Weekly topics and subtopics per course, in chronological order
4. Practical projects
5. Assessment criteria
6. Resources (books, videos, online platforms)

For every course include a detailed %d-minute lesson plan:
1. Lesson objectives
2. Introduction (5%%)
3. Main content (50%%)
4. Practical exercises (40%%)
5. Review and closing (5%%)
6. Homework and suggestions

Finish with %d open-ended exam questions in the format:
Question: [question text]
Answer: [answer text]`,
		subject, duration, lessonDuration, questionCount)
}

func EvaluationPrompt(assignmentText, criteria string) string {
	return fmt.Sprintf(`Evaluate the following student assignment in a constructive, instructive way:

=== ASSIGNMENT ===
%s

=== EVALUATION CRITERIA ===
%s

=== EVALUATION REPORT ===
Use this structure:

OVERALL ASSESSMENT
Score: [X]/100
Summary: [short overall judgement]

STRENGTHS
- [what worked]

AREAS TO IMPROVE
- [what is missing or wrong]

RECOMMENDATIONS
- [concrete improvement steps and further resources]

DETAILED FEEDBACK
[section-by-section analysis]

Stay constructive and motivating; point out growth areas without
discouraging the student.`, assignmentText, criteria)
}
