package authorgraph

const (
	// authorEdgeLimit caps how many authors of a paper contribute edges —
	// papers with pathological author lists (hundreds of names) would
	// otherwise blow up edge count for no analytical benefit.
	authorEdgeLimit = 8

	samePaperWeight     = 10
	refAuthorWeightOrig = 2
	refAuthorWeightRef  = 1
)

// AddSamePaper links every pair of coauthors on one paper symmetrically,
// weighted by 10*(n+1) where n is the paper's citation count. Mirrors
// add_same_paper_authors: both (i,j) and (j,i) get the same weight added,
// and only the first 8 authors participate.
func (g *Graph) AddSamePaper(authors []int64, nCitation uint32) {
	n := len(authors)
	if n > authorEdgeLimit {
		n = authorEdgeLimit
	}
	weight := int32(samePaperWeight * (nCitation + 1))
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			g.AddEdge(weight, authors[i], authors[j])
			g.AddEdge(weight, authors[j], authors[i])
		}
	}
}

// AddReferenced links each author of a citing paper to each author of a
// cited paper, directed only (citing -> cited), weighted by
// 2*nCitationPaper + 1*nCitationRef. Mirrors add_referenced_authors: both
// sides are capped at 8 authors, and a zero entry in authorsReferenced
// terminates that inner loop early (the reference array is a fixed-size
// slot list, not a dense slice).
func (g *Graph) AddReferenced(authorsInPaper []int64, authorsReferenced []int64, nCitationPaper, nCitationRef uint32) {
	n := len(authorsInPaper)
	if n > authorEdgeLimit {
		n = authorEdgeLimit
	}
	weight := int32(refAuthorWeightOrig*nCitationPaper + refAuthorWeightRef*nCitationRef)
	m := len(authorsReferenced)
	if m > authorEdgeLimit {
		m = authorEdgeLimit
	}
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			if authorsReferenced[j] == 0 {
				break
			}
			g.AddEdge(weight, authorsInPaper[i], authorsReferenced[j])
		}
	}
}
