package models

var (
	JSONPromptTemplate = `Analyze the text: %s

Extract key information and formulate a list of question-answer pairs in JSON format.

**Example:**

"question": "What is formed when dilute sulphuric acid is added to zinc granules?",
"answer": "Change in state, change in colour, evolution of a gas, change in temperature."
`

	CSVPromptTemplate = `Analyze the text: %s

Extract key information and formulate a list of question-answer pairs in CSV format with the header question,answer.

**Example:**
question,answer
What is formed when dilute sulphuric acid is added to zinc granules?,"Change in state, change in colour, evolution of a gas, change in temperature."
`
)
