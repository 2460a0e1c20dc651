package model

import "path"

// ContentTypePDF is the media type of every rendered artifact.
const ContentTypePDF = "application/pdf"

// RenderedArtifact is a rendered document and the location it is stored at.
type RenderedArtifact struct {
	Path        string
	Filename    string
	ContentType string
	Data        []byte
}

// ArtifactFilename returns "{document_kind}_{identifier}.pdf".
func ArtifactFilename(class DocumentClass, id DocumentIdentifier) string {
	return string(class) + "_" + id.String() + ".pdf"
}

// ArtifactPath returns "{category}/{document_kind}_{identifier}.pdf". The
// path depends only on the identifier, so re-rendering overwrites in place.
func ArtifactPath(class DocumentClass, id DocumentIdentifier) string {
	return path.Join(class.Category(), ArtifactFilename(class, id))
}
