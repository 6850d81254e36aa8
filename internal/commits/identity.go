package commits

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/temirov/commitcounter/internal/repos/shared"
)

const (
	emailMarkerConstant                       = "@"
	lastNameSeparatorConstant                 = ","
	identityNameSeparatorConstant             = " "
	unknownEmailIdentityConstant              = "Unknown Email"
	unsupportedIdentitySourceTemplateConstant = "unsupported identity source: %q"
)

// IdentitySource selects which author signature field keys the commit totals.
type IdentitySource string

// Supported identity sources.
const (
	IdentitySourceName  IdentitySource = "name"
	IdentitySourceEmail IdentitySource = "email"
)

// ParseIdentitySource validates a configured identity source, defaulting empty values to IdentitySourceName.
func ParseIdentitySource(rawValue string) (IdentitySource, error) {
	normalizedValue := strings.ToLower(strings.TrimSpace(rawValue))
	switch IdentitySource(normalizedValue) {
	case "", IdentitySourceName:
		return IdentitySourceName, nil
	case IdentitySourceEmail:
		return IdentitySourceEmail, nil
	default:
		return "", fmt.Errorf(unsupportedIdentitySourceTemplateConstant, rawValue)
	}
}

// AuthorIdentity returns the key a commit is counted under and whether the commit counts at all.
// The name source skips commits without an author name. The email source skips only
// commits whose author name is not valid UTF-8.
func (source IdentitySource) AuthorIdentity(author shared.CommitAuthor) (string, bool) {
	if source == IdentitySourceEmail {
		if !utf8.ValidString(author.Name) {
			return "", false
		}
		if len(author.Email) == 0 {
			return unknownEmailIdentityConstant, true
		}
		return author.Email, true
	}

	if len(author.Name) == 0 {
		return "", false
	}

	return NormalizeAuthorName(author.Name), true
}

// NormalizeAuthorName folds an author display name into a "first last" identity.
//
// Names containing "@" are returned verbatim. Otherwise the name is lowercased and
// split on whitespace; the first and last tokens become the first and last name.
// A comma in the first token marks the "Last, First" form and swaps the pair.
// Single-token names keep an empty last name, leaving a trailing space.
func NormalizeAuthorName(rawName string) string {
	if strings.Contains(rawName, emailMarkerConstant) {
		return rawName
	}

	lowercasedName := strings.ToLower(rawName)
	nameTokens := strings.Fields(lowercasedName)

	firstName := ""
	lastName := ""
	if len(nameTokens) > 0 {
		firstName = nameTokens[0]
	}
	if len(nameTokens) > 1 {
		lastName = nameTokens[len(nameTokens)-1]
	}

	if strings.Contains(firstName, lastNameSeparatorConstant) {
		firstName, lastName = splitLastFirst(lowercasedName)
	}

	return firstName + identityNameSeparatorConstant + lastName
}

// splitLastFirst reads "last, first [middle...]" and returns (first, last).
func splitLastFirst(lowercasedName string) (string, string) {
	lastNamePart, firstNamePart, _ := strings.Cut(lowercasedName, lastNameSeparatorConstant)

	lastName := strings.TrimSpace(lastNamePart)
	firstName := ""
	if firstNameTokens := strings.Fields(firstNamePart); len(firstNameTokens) > 0 {
		firstName = firstNameTokens[0]
	}

	return firstName, lastName
}
