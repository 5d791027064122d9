package quiz

// Result is the outcome of grading one answer set.
type Result struct {
	Score int `json:"score"`
	Total int `json:"total"`
}

// Grade scores an ordered answer set against the quiz's answer key.
// A nil entry is an unanswered question and never matches; answers beyond
// the question count are ignored. Pure and deterministic.
func Grade(qz Quiz, answers []*int) Result {
	res := Result{Total: len(qz.Questions)}
	for i, q := range qz.Questions {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if *answers[i] == q.CorrectIndex {
			res.Score++
		}
	}
	return res
}
