package testdata

// AllTestCases returns every labeled command.
func AllTestCases() []TestCase {
	var all []TestCase
	all = append(all, AllDestructiveCases()...)
	all = append(all, AllExecutionCases()...)
	return all
}
