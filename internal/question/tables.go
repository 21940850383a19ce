package question

// Static question bank for the interview simulator. All tables are
// read-only package data: loaded once, never mutated.
//
// Survey-linked tables are keyed by the topic tags a respondent can pick
// on the background survey. Only tags whose entry holds at least three
// questions can form a combo block; shorter entries are kept so the form
// can still offer the tag, they just never reach the exam.

// SelfIntroduction always opens the exam, independent of the survey.
const SelfIntroduction = "Let's start the interview now. Tell me a little bit about yourself"

const (
	// TopicWorkplace is the survey-linked set used when the respondent
	// works at a business or company.
	TopicWorkplace = "Workplace"
	// TopicSchool is the survey-linked set used when the respondent is a student.
	TopicSchool = "School"
)

var workplaceQuestions = []string{
	"You indicated in the survey that you're employed. Tell me about the company you currently work for. Where is it located and when was it established?",
	"Please describe your office or workplace in detail. What does it look like? What can be found in your place of work?",
	"Tell me about the technology or equipment in your office or workplace. Which devices do you use regularly? What do you use them for?",
}

var schoolQuestions = []string{
	"You indicated in the survey that you attend university. Tell me about your school. Where is it? What does it look like?",
	"Tell me about your first visit to your school. When was it, and who were you with?",
	"Many students become friends with their classmates. Tell me about how and when you met your close friend at school.",
}

// leisureQuestions maps leisure-activity tags to their canned questions.
// Entries with fewer than three questions never qualify for a combo block.
var leisureQuestions = map[string][]string{
	"Watching movies": {
		"In your background survey, you indicated that you enjoy watching movies. What is your favorite type of movie and why? Please provide as many details as possible.",
		"Talk about a movie you remember best. What was it about? Who was in it? How did you feel when watching it?",
		"What is your routine when you go to the theater? What do you do before watching movies? What about after? Please describe your routine in detail.",
		"Who is your favorite actor? What movies has this actor starred in? What do you like about him or her?",
	},
	"Going to the park": {
		"You indicated in the survey that you like to go to the park. Describe your favorite park in as much detail as possible. What makes it so special?",
		"How often do you go to the park? Who do you usually go with? What do you like to do there? Tell me in as much detail as possible.",
		"Please tell me about a time something interesting or unexpected happened at the park. Where and when did it occur? What were you doing at the time?",
		"Tell me about what you usually do at the park. What is a typical day at the park like from beginning to end?",
	},
	"Going to the beach": {
		"In your background survey, you indicated that you like going to beaches. Where is your favorite beach and how often do you go there? Why do you like it?",
		"What items do you pack for a beach trip? Why do you take them with you? Provide as many details as possible.",
	},
	"Camping": {
		"Tell me about your most memorable camping trip. What happened? What made the trip so memorable?",
		"What do you usually do when you go camping? Please tell me everything you do on a camping trip.",
	},
	"Shopping": {
		"Unexpected difficulties can occur while we are shopping. What was a problem you recently experienced while shopping? How did you resolve this issue? Provide as many details in your response as possible.",
		"Describe a memorable or interesting experience you once had when shopping. What made this experience so unforgettable? Provide as many details as possible.",
		"Shopping is a popular activity. Tell me where you usually like to shop. When do you go there, and who do you go with? What do you usually buy?",
		"Is there a particular store that you visit regularly? Tell me what the store sells and why you like going there.",
	},
	"Watching TV": {
		"When did you start watching TV and what made you interested in it? Describe in detail how TV shows have changed since you were young.",
		"Is there a TV show you used to watch that was particularly enjoyable? What was the title? Tell me what it was about and why you liked it so much.",
		"Tell me about the TV programs you like to watch. Why do you like to watch them? How often do you usually watch them? Give me as many details as possible.",
	},
	"Watching reality shows": {
		"In your background survey, you indicated that you enjoy watching reality shows. Where did your favorite reality show take place? What did that place look like? Why was the show filmed in that place? Provide as many details as you can.",
	},
	"Going to cafes": {
		"You indicated in the survey that you like to go to cafes. Tell me about a cafe you go to often. Where is it located? What does it look like? Please describe it in detail.",
		"When was the first time you went to a cafe? Who did you go with? Did you like it? Please tell me in as much detail as you can.",
		"Please tell me about a memorable experience you have had at a cafe. What happened? Why was this experience so memorable?",
		"What do you usually do at a cafe? Who do you go with? What do you like to order?",
	},
}

var hobbyQuestions = map[string][]string{
	"Listening to music": {
		"In your background survey, you indicated that you enjoy listening to music. What kind of music do you like? Who is your favorite singer or composer?",
		"Where and when do you usually listen to music? What do you use to listen to music? Provide as many details as possible in your response.",
		"What first interested you in music? When you first heard your favorite singer or composer, how did you feel? Has your taste in music changed at all?",
		"What is your favorite song? What makes it so special? Do you have a special memory associated with the song?",
	},
}

var sportQuestions = map[string][]string{
	"Swimming": {
		"In your background survey, you indicated that you know how to swim. When did you first learn how to swim? When was the last time you went swimming and with whom?",
		"Have you ever had a memorable experience while you were swimming? Tell me about it from the beginning to the end.",
		"Swimming is very popular these days. How often do you swim? Who do you usually go with? Provide as many details as possible in your response.",
		"Please explain why you enjoy swimming. What are some of the advantages of swimming, and why is it better than other types of exercise?",
	},
}

// travelQuestions currently holds fewer than three questions per tag, so no
// travel tag can form a combo block yet. The table is still consulted so
// filling it out later changes nothing else.
var travelQuestions = map[string][]string{
	"General travel": {
		"Before you travel, what do you usually prepare for your trip? What things do you include in your luggage? Please list a few items you take with you.",
		"You must have had a trip that was particularly memorable. Describe that trip and tell me why it was unforgettable. Provide as many details as possible.",
	},
	"Domestic travel": {
		"You indicated in the survey that you enjoy traveling within your home country. What are your favorite places to visit and why do you like them?",
	},
	"Overseas travel": {
		"More and more people are traveling abroad these days. When did you first travel abroad? Where did you go and who did you go with?",
	},
}

// suddenTopics is the fixed catalog of general-knowledge topics asked
// regardless of the respondent's survey. Every entry carries exactly three
// questions in suddenQuestions.
var suddenTopics = []string{
	"Housework",
	"Eating out",
	"Internet surfing",
	"Holidays",
	"Banks",
	"Transportation",
	"Health and hospitals",
	"Hotels",
	"Fashion",
	"Appointments",
	"Furniture and appliances",
	"Recycling",
	"Weather",
	"Libraries",
}

var suddenQuestions = map[string][]string{
	"Housework": {
		"Everyone has to do housework on a regular basis. What kind of chores do you usually do at home? Tell me about them in detail.",
		"You and your family probably have different responsibilities at home. Tell me about which chores each family member is responsible for.",
		"Have you ever had chores that you weren't able to do? If so, explain why you weren't able to do them. Tell me using as many details as possible.",
	},
	"Eating out": {
		"What was the last restaurant you ate at? What did you have there? Who did you go with? Provide as many details in your response as possible.",
		"Is there a particular restaurant you often go to? What kind of food does it serve? Why do you like to go there?",
		"Many countries have special or unique foods. What are some of the traditional dishes in your country? Please describe them in detail.",
	},
	"Internet surfing": {
		"When you work on projects, do you use the internet? Please explain what you use it for and why it is useful. Provide as many details in your response as possible.",
		"There are many different types of computers and programs available now. What kind of computer and programs do you have? Please describe them in detail.",
		"Everyone uses the internet regularly these days. When did you use the internet for the first time? Do you use it a lot these days? How much time do you spend on the internet each day?",
	},
	"Holidays": {
		"Can you tell me about a particularly memorable holiday you had when you were young? Describe what you did and what made it so memorable. Give me as many details as you can.",
		"Certain holidays are more important than others. What is the biggest holiday in your country? Tell me what you usually do on that holiday and how you celebrate it.",
		"There are many different ways to celebrate a holiday. How are holidays celebrated in your country, and what kinds of special food are prepared?",
	},
	"Banks": {
		"People go to the bank for many reasons. Why do people go to the bank? Please give me as many details as possible.",
		"Tell me about the banks in your country. Where are they located? When do they open and close? What do they look like? Please describe in as much detail as possible.",
		"Tell me about the last time you went to a bank. What did you do at the bank? Please describe your experience in detail.",
	},
	"Transportation": {
		"What is public transportation like in your country? Tell me which type of public transportation you prefer to use and why. Provide as many details in your response as possible.",
		"Public transportation systems are constantly being improved. Have there been any changes to the public transportation system in your city since you were young? Please tell me about them in detail.",
		"Sometimes riding the subway or bus can be uncomfortable. Have you ever had any problems while taking public transportation? Please describe your experience in detail.",
	},
	"Health and hospitals": {
		"There are many different ways to stay healthy. What do you think a person should do to stay healthy? Give me as many details as possible.",
		"Going to the dentist can be stressful. Are you afraid to visit the dentist? Have you ever had an unpleasant experience at a dental clinic?",
		"Have you ever had to quit doing something for health reasons? What was it that you had to give up?",
	},
	"Hotels": {
		"Please tell me about the hotels in your country. What do they look like? Where are they located? What kinds of facilities do they have?",
		"What do you usually do when you arrive at a hotel? Describe the steps you take when you stay at a hotel.",
		"Please describe a memorable experience you have had while staying at a hotel. What happened? What made the experience memorable?",
	},
	"Fashion": {
		"I'd like to know the kinds of clothes people typically wear in your country. What do they wear when they are relaxing at home? How is it different from what they wear at work?",
		"Tell me about the changes in fashion trends in your country. What kinds of clothes did people wear in the past? How is that different from what people wear these days?",
		"Tell me about the last time you went shopping for clothes. What did you buy and who did you go with?",
	},
	"Appointments": {
		"People make appointments for a variety of reasons. What kinds of appointments do you usually make with people? Who do you make them with?",
		"Where do you like to meet your friends? Why do you prefer this place? Provide as many details as possible in your response.",
		"Tell me about a particularly memorable appointment with your friends. What made this experience so unforgettable? Give me as many details as you can.",
	},
	"Furniture and appliances": {
		"Tell me about your favorite piece of furniture in your house. What does it look like? Why is it your favorite? Give me as many details as possible.",
		"Can you tell me about a piece of furniture you bought recently? Where did you buy it? Give me as many details as possible.",
		"Have you experienced any problems with your electronics? Describe a recent difficulty you faced, and explain how it happened. How did you solve this problem?",
	},
	"Recycling": {
		"How do people in your country recycle? What items do they recycle? Tell me about the recycling system in your country in detail.",
		"How do you recycle at home? When and how often do you take out recyclable items? Describe the process in detail.",
		"Tell me about a memorable experience you have had while recycling. What happened and what did you do? Please describe the experience in detail.",
	},
	"Weather": {
		"The weather varies from season to season. Tell me what the weather has been like these days. Provide as many details as possible.",
		"Many people feel that the weather was different when they were children. Have you noticed a change in the weather over the years? Was it different when you were young?",
		"Have you ever experienced something memorable because of the weather? Please explain what happened and why it was memorable. Give me as many details as possible.",
	},
	"Libraries": {
		"Did you ever have a problem while using a library? What was the problem and how was it resolved? Please provide as many details as possible.",
		"Can you tell me about the library you go to most often? Where is it located, and what does it look like? Why do you go there? Please tell me about it in detail.",
		"Tell me about your most recent visit to the library. When did you go? Who did you go with? What did you do there? Please provide as many details in your response as possible.",
	},
}

// rolePlayPool is a flat pool of interviewer-perspective prompts; every
// exam draws exactly three of them, without replacement.
var rolePlayPool = []string{
	"I also live with my family now. Ask me three or four questions about my family.",
	"I am currently a student at Harvard University. Please ask me three or four questions about Harvard University.",
	"I moved into a new house recently. Ask me three or four questions about my house.",
	"I enjoy going to the movies. Ask me three or four questions about the kinds of movies I like.",
	"I also enjoy swimming. Please ask me three or four questions about my swimming habits.",
	"I'm planning to go to Vancouver in Canada. Ask me three or four questions about Vancouver.",
	"I go to the library often. Ask me three or four questions about the library I go to.",
}
