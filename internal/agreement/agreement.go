package agreement

// Section is one heading/body pair of the agreement terms.
type Section struct {
	Heading string
	Content string
}

// Document holds the static agreement text rendered into every signed PDF.
type Document struct {
	Title       string
	LastUpdated string
	Sections    []Section
}

// Default returns the agreement text in effect.
func Default() Document {
	return Document{
		Title:       "Student Enrollment Agreement",
		LastUpdated: "January 2025",
		Sections: []Section{
			{
				Heading: "1. Enrollment and Participation",
				Content: "By signing this agreement, the student confirms their enrollment in the selected course and commits to attending scheduled sessions, completing assigned coursework, and engaging constructively with instructors and fellow students. Enrollment is personal and non-transferable.",
			},
			{
				Heading: "2. Payment and Fees",
				Content: "The student agrees to pay all applicable tuition and fees according to the payment schedule communicated at registration. Late payments may result in suspended access to course materials until the balance is settled. Refunds are governed by the refund policy published on the institution's website.",
			},
			{
				Heading: "3. Code of Conduct",
				Content: "Students are expected to behave respectfully toward staff and peers, both on premises and in online forums associated with the course. Harassment, discrimination, plagiarism, or disruption of classes may lead to disciplinary action up to and including dismissal without refund.",
			},
			{
				Heading: "4. Intellectual Property",
				Content: "All course materials, including slides, recordings, exercises, and written content, remain the intellectual property of the institution. Materials are provided for personal study only and may not be redistributed, resold, or published without prior written consent.",
			},
			{
				Heading: "5. Privacy and Data Handling",
				Content: "Personal information collected through this form is used solely for enrollment administration, communication about the course, and legal record-keeping. Data is stored securely and is not shared with third parties except as required to deliver the services described here or as required by law.",
			},
			{
				Heading: "6. Liability",
				Content: "The institution is not liable for indirect or consequential losses arising from participation in the course, including interruptions caused by circumstances beyond its reasonable control. Nothing in this agreement limits liability that cannot be limited under applicable law.",
			},
			{
				Heading: "7. Acceptance",
				Content: "By providing a digital signature below, the student acknowledges having read, understood, and accepted all terms of this agreement. The digital signature carries the same weight as a handwritten signature.",
			},
		},
	}
}
