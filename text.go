package main

var (
	ContactSent    = `Thank you for your message! I'll get back to you soon.`
	ContactFailed  = `Sorry, there was an error sending your message. Please try again later.`
	ContactInvalid = `Please fill in your name, a valid email address and a message.`

	PrivacyTracking = `When you load this site the server records the page you visited, your
	browser's user agent and a salted hash of your IP address. The raw address is never stored,
	and the salt changes every time the server restarts.`

	PrivacyPreferences = `Your light or dark theme choice is stored on the server under a random
	visitor id kept in a cookie, so the site remembers it on your next visit.`

	PrivacyRetention = `Visit records are deleted after 12 months. Requests that send the Do Not
	Track header are not recorded at all.`

	PrivacyForget = `You can delete your stored preferences at any time with the button below.
	This also resets your visitor cookie.`
)
