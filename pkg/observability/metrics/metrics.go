package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	documentsProcessed atomic.Int64
	namesExtracted     atomic.Int64
	similarityRequests atomic.Int64
	emptyInputRejected atomic.Int64
	processingErrors   atomic.Int64
)

func IncDocumentsProcessed() { documentsProcessed.Add(1) }

func IncNamesExtracted() { namesExtracted.Add(1) }

func IncSimilarityRequests() { similarityRequests.Add(1) }

func IncEmptyInputRejections() { emptyInputRejected.Add(1) }

func IncProcessingErrors() { processingErrors.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP xear_nlp_documents_processed_total Documents processed through the extraction pipeline.\n")
	fmt.Fprintf(w, "# TYPE xear_nlp_documents_processed_total counter\n")
	fmt.Fprintf(w, "xear_nlp_documents_processed_total %d\n", documentsProcessed.Load())

	fmt.Fprintf(w, "# HELP xear_nlp_patient_names_extracted_total Patient name extractions that produced a result.\n")
	fmt.Fprintf(w, "# TYPE xear_nlp_patient_names_extracted_total counter\n")
	fmt.Fprintf(w, "xear_nlp_patient_names_extracted_total %d\n", namesExtracted.Load())

	fmt.Fprintf(w, "# HELP xear_nlp_similarity_requests_total Similarity scorings served.\n")
	fmt.Fprintf(w, "# TYPE xear_nlp_similarity_requests_total counter\n")
	fmt.Fprintf(w, "xear_nlp_similarity_requests_total %d\n", similarityRequests.Load())

	fmt.Fprintf(w, "# HELP xear_nlp_empty_input_rejected_total Requests rejected for missing text.\n")
	fmt.Fprintf(w, "# TYPE xear_nlp_empty_input_rejected_total counter\n")
	fmt.Fprintf(w, "xear_nlp_empty_input_rejected_total %d\n", emptyInputRejected.Load())

	fmt.Fprintf(w, "# HELP xear_nlp_processing_errors_total Unexpected processing failures.\n")
	fmt.Fprintf(w, "# TYPE xear_nlp_processing_errors_total counter\n")
	fmt.Fprintf(w, "xear_nlp_processing_errors_total %d\n", processingErrors.Load())
}
