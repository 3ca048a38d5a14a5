package message

// tables holds the static candidate lines per threshold bucket.
var tables = map[Bucket][]string{
	BucketWarmup: {
		"Timer's running. Enjoy the game!",
		"Have fun out there — the clock has your back.",
		"Fresh session. Go make some plays.",
		"Tracking started. Nothing else to do here.",
		"Good luck, have fun.",
	},
	BucketSettled: {
		"Solid session so far. Water exists, just saying.",
		"You're in the zone. A quick stretch between rounds never hurts.",
		"Nice stretch of play. Keep enjoying it.",
		"An hour-ish in — still all good.",
		"Settled in nicely. Blink occasionally.",
	},
	BucketLong: {
		"Two hours and counting. Maybe a short walk between matches?",
		"Long session going. Your future self appreciates a snack break.",
		"Still at it — no judgment, just a gentle stretch reminder.",
		"Deep in it now. Posture check, then carry on.",
		"That's a good long run. Eyes off the screen for thirty seconds?",
	},
	BucketMarathon: {
		"That's a marathon! The save button will still be there after a break.",
		"Impressive stamina. Whenever you're ready, a pause is well earned.",
		"Four-plus hours — hydrate and shake out those hands.",
		"Epic session. Remember the game is more fun when you're rested.",
	},
	BucketBigDay: {
		"Big gaming day today — you've earned the fun, just check in with yourself.",
		"Way past your usual today. All good, just worth noticing.",
		"Today's total is well above your average. Enjoy it mindfully.",
		"A standout day of play. Tomorrow-you might like an early night.",
	},
}
