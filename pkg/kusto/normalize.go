package kusto

// Normalize reconciles the primary results with the table list.
//
// Engines that do not pre-separate the principal output return it as a
// generic table named PrimaryResult. Normalize moves every such table into
// PrimaryResults and removes it from Tables and TableNames so the output
// is never duplicated. Responses that already carry PrimaryResults are
// left untouched.
func (r *TabularResponse) Normalize() {
	if len(r.PrimaryResults) > 0 {
		return
	}

	var kept []Table
	var keptNames []string
	for _, t := range r.Tables {
		if t.Name == PrimaryResultName {
			r.PrimaryResults = append(r.PrimaryResults, t)
			continue
		}
		kept = append(kept, t)
		keptNames = append(keptNames, t.Name)
	}
	r.Tables = kept
	r.TableNames = keptNames
}
