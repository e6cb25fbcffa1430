package action

// Result is the outcome of processing one draft issue in a batch. A failed
// item carries Err and never stops the batch.
type Result[T any] struct {
	ItemID string
	Value  T
	Err    error
}

// reportFailures logs every failed result and returns how many failed.
func reportFailures[T any](env *Env, results []Result[T], doing string) int {
	failed := 0
	for _, r := range results {
		if r.Err == nil {
			continue
		}
		failed++
		env.Log.Error().Msgf("Error while %s draft issue %s: %s", doing, r.ItemID, r.Err)
	}
	return failed
}
