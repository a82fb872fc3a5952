package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"

	// DefaultSessionTitle is shown until the first exchange derives a real title.
	DefaultSessionTitle = "New Conversation"

	// SessionTitleMaxLen is the display limit for session titles.
	SessionTitleMaxLen = 30

	// AgentMaxRounds caps the reason/act/observe loop per turn.
	AgentMaxRounds = 3

	// AgentApologyMessage is returned whenever the agent cannot produce an
	// answer. Provider error detail goes to the log, never to the caller.
	AgentApologyMessage = "I'm sorry, I encountered an error while processing your request."
)

// AgentPersonaPromptV1 is the ReAct prompt for the news agent. The model must
// emit either one Action/Action Input pair or a Final Answer each round.
const AgentPersonaPromptV1 = `You are a helpful news assistant that can search for and summarize recent news.
Always be conversational and friendly in your responses.

When finding news:
1. Search for the most relevant news articles
2. Summarize the key points
3. Add your own insights about the news
4. Be concise yet informative

Available tools:
%s

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [%s]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Begin!
`

// TitlePromptV1 asks the model for a short session label.
const TitlePromptV1 = `Given the following user query in a news chat application, generate a concise, descriptive title (5 words or less) that captures the main topic. The title should be informative but brief (30 characters max).

Query: '%s'

Title:`

// TrackedQuerySummaryPromptV1 condenses search results for a tracked query.
const TrackedQuerySummaryPromptV1 = `You are monitoring ongoing news coverage for the standing query: '%s'

Here are the latest articles:
%s

Write a short factual summary (3 sentences max) of the current state of this story. Do not add opinions.`
