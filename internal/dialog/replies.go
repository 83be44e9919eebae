package dialog

// Canned reply texts. Wording is part of the conversational contract and is
// asserted in tests; change with care.
const (
	replyGreeting = "Hello! How can I help you today? You can ask me for directions or information about teachers."
	replyGoodbye  = "Goodbye! Have a great day."
	replyThanks   = "You're welcome!"
	replyAbout    = "I am a friendly AI assistant. I can help you navigate the campus and find information about faculty members."
	replyFallback = "I'm not sure how to help with that. You can ask me for directions like 'navigate from ab1 303 to ab2 112' or 'who is [teacher's name]?'"

	replyWaiting       = "Okay, I'll wait. Just say 'yes' or 'reached' when you get there."
	replyArrived       = "You have arrived at your destination!"
	replyEnterNumber   = "Please enter a number to choose a teacher."
	replyInvalidChoice = "That's not a valid choice. Please pick a number from the list."
	replyNoProblem     = "Alright. Let me know if you need anything else!"
	replyAskWho        = "I can help with teacher details. Who are you looking for?"
	replyAskEndpoints  = "I can help with navigation. Please tell me where you are starting from and where you want to go, for example: 'Navigate from AB1-101 to AB2-205'."
)
