package models

const (
	// NotApplicable is the answer the model is told to give for irrelevant context.
	NotApplicable = "Not applicable"

	ContextSeparator = "\n"

	MetaFilename = "filename"
	MetaPage     = "page"
	MetaChunk    = "chunk"
	MetaSource   = "source"

	RoleSystem = "system"
	RoleUser   = "user"
)

var (
	// ChunkSeparators are tried in order: paragraph, line, sentence punctuation, then whitespace.
	ChunkSeparators = []string{"\n\n", "\n", ".", "!", "?", ",", " "}

	AnswerPromptTemplate = `
    You are a helpful Assistant who answers user questions based on multiple contexts given to you.

    Keep your answer short and to the point.

    The evidence is the context of the PDF extract with metadata.

    Carefully focus on the metadata, especially 'filename' and 'page', whenever answering.

    Make sure to add filename and page number at the end of the sentence you are citing to.

    Reply "` + NotApplicable + `" if the text is irrelevant.

    The PDF content is:
    %s
`
)
