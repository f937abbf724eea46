// Package inventory turns a YAML inventory manifest into a graph store.
//
// A manifest lists the domains of an organisation, the components each domain
// owns, and for every component its repository, documentation, language,
// frameworks and the gateways (with routes) through which it is exposed:
//
//	name: acme
//	domains:
//	  - id: payments
//	    name: Payments
//	    components:
//	      - id: billing
//	        repository: git@github.com:acme/billing.git
//	        documentation: https://docs.acme.dev/billing
//	        language: go
//	        frameworks: [chi]
//	        gateways:
//	          - name: public
//	            routes: [/invoices]
//
// # Graph Shape
//
// [Build] creates one vertex per entity and connects them with typed edges:
//
//	root      -owns->    domain
//	domain    -owns->    component
//	component -gateway-> gateway
//	gateway   -route->   route
//	component -uses->    language, framework
//
// Languages, frameworks and gateways are shared: two components naming the
// same language point at the same vertex. Structural problems (missing ids,
// duplicates) fail the whole build.
//
// Free-form "details" mappings on domains and components are copied into the
// vertex's details property with their keys in file order.
package inventory
