package report

// Medical section keys.
const (
	KeyTechnicalAssessment     = "technical_assessment"
	KeyAnatomicalObservations  = "anatomical_observations"
	KeyNotableFindings         = "notable_findings"
	KeyRecommendations         = "recommendations"
)

// SEO section keys.
const (
	KeyMetaTitle          = "meta_title"
	KeyMetaDescription    = "meta_description"
	KeyAlternativeTitles  = "alternative_titles"
	KeyKeywords           = "keywords"
	KeyProductDescription = "product_description"
)

// Social section keys.
const (
	KeyInstagramCaptions = "instagram_captions"
	KeyTwitterPosts      = "twitter_posts"
	KeyFacebookPost      = "facebook_post"
	KeyHashtags          = "hashtags"
)

// MedicalSpec parses radiology-style reports into four narrative sections.
func MedicalSpec() Spec {
	return Spec{
		SkipNumbered: true,
		Sections: []Section{
			{Key: KeyTechnicalAssessment, Keywords: []string{"technical assessment"}, Join: "\n"},
			{Key: KeyAnatomicalObservations, Keywords: []string{"anatomical observations"}, Join: "\n"},
			{Key: KeyNotableFindings, Keywords: []string{"notable findings"}, Join: "\n"},
			{Key: KeyRecommendations, Keywords: []string{"recommendations"}, Join: "\n"},
		},
	}
}

// SEOSpec parses generated SEO copy. Keyword order matters: a line such as
// "Meta Description:" must bind before the bare "description:" fallback.
func SEOSpec() Spec {
	return Spec{
		Sections: []Section{
			{Key: KeyMetaTitle, Keywords: []string{"meta title", "title:"}, Join: " "},
			{Key: KeyMetaDescription, Keywords: []string{"meta description", "description:"}, Join: " "},
			{Key: KeyAlternativeTitles, Keywords: []string{"alternative titles", "a/b testing"}, Split: SplitLines},
			{Key: KeyKeywords, Keywords: []string{"keywords"}, Split: SplitComma},
			{Key: KeyProductDescription, Keywords: []string{"product description"}, Join: " "},
		},
	}
}

// SocialSpec parses generated social media variations.
func SocialSpec() Spec {
	return Spec{
		SkipNumbered: true,
		Sections: []Section{
			{Key: KeyInstagramCaptions, Keywords: []string{"instagram"}, Split: SplitLines},
			{Key: KeyTwitterPosts, Keywords: []string{"twitter", "x post"}, Split: SplitLines},
			{Key: KeyFacebookPost, Keywords: []string{"facebook"}, Join: " "},
			{Key: KeyHashtags, Keywords: []string{"hashtag"}, Split: SplitHash},
		},
	}
}
