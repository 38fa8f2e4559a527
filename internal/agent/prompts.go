package agent

import (
	"fmt"
	"strings"
)

func formatTurns(turns []Turn) string {
	lines := make([]string, 0, len(turns))
	for _, turn := range turns {
		lines = append(lines, fmt.Sprintf("Q: %s\nA: %s", turn.Question, turn.Answer))
	}
	return strings.Join(lines, "\n")
}

func buildDecisionPrompt(question string, recent []Turn) string {
	var b strings.Builder
	b.WriteString("You are analyzing if a question needs database access.\n\n")
	if len(recent) > 0 {
		b.WriteString("Recent conversation:\n")
		b.WriteString(formatTurns(recent))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Current question: %q\n\n", question)
	b.WriteString(`The database contains user signup information with:
- username, email, signup_date, week_number, status

Does this question require querying the database? Consider:
- Questions about users, signups, counts, dates, weeks need DB
- General questions, greetings, clarifications may not need DB
- Follow-up questions may reference previous answers

Answer ONLY with: YES or NO

Answer:`)
	return b.String()
}

func buildSynthesisPrompt(question string, recent []Turn, schemaText, sampleData string) string {
	var b strings.Builder
	b.WriteString("You are a SQL query generator. Convert natural language questions to SQL queries.\n\n")
	b.WriteString(schemaText)
	b.WriteString("\n")
	if sampleData != "" {
		b.WriteString(sampleData)
		b.WriteString("\n\n")
	}
	if len(recent) > 0 {
		b.WriteString("Previous conversation:\n")
		b.WriteString(formatTurns(recent))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Current question: %q\n\n", question)
	b.WriteString(`Generate a SQL query to answer this question. Consider:
- Use SELECT to retrieve data
- Use COUNT() for counting
- Use WHERE to filter (e.g., week_number, status, date ranges)
- Use GROUP BY for aggregations

Respond with ONLY a valid JSON object:
{
    "sql_query": "SELECT username, email FROM signups WHERE week_number = 1",
    "intent": "list_users_by_week",
    "description": "Get users who signed up in week 1"
}

Do not include any text before or after the JSON.

JSON Response:`)
	return b.String()
}

func buildAnswerPrompt(question, intent, serializedRows string) string {
	if intent == "" {
		intent = "unknown"
	}
	var b strings.Builder
	b.WriteString("Convert database query results into a natural, conversational answer.\n\n")
	fmt.Fprintf(&b, "Question: %q\n", question)
	fmt.Fprintf(&b, "Query intent: %s\n\n", intent)
	b.WriteString("Data retrieved:\n")
	b.WriteString(serializedRows)
	b.WriteString("\n\n")
	b.WriteString(`Generate a natural language answer that:
- Directly answers the question
- Is conversational and friendly
- Includes relevant details from the data
- Uses appropriate formatting (lists for multiple items)

Answer:`)
	return b.String()
}

func buildDirectPrompt(question string, recent []Turn) string {
	var b strings.Builder
	if len(recent) > 0 {
		b.WriteString("Previous context:\n")
		b.WriteString(formatTurns(recent))
		b.WriteString("\n\n")
	}
	fmt.Fprintf(&b, "Current question: %q\n\n", question)
	b.WriteString("Provide a helpful, natural, and conversational response.\n\nResponse:")
	return b.String()
}
