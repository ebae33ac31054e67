package swaggerkit

import docs "github.com/Vini334/AI-Deal-Flow-Triage-Matching-System/internal/services/api/docs"

// docReader renders the registered API document
var docReader = func() string { return docs.SwaggerInfo.ReadDoc() }
