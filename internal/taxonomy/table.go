package taxonomy

// entries is the fixed purchase-order category taxonomy. Triples are unique;
// most branches stop at L2.
var entries = []Entry{
	{L1: "Banking & Financial", L2: "Banking Charges"},
	{L1: "Banking & Financial", L2: "Global Rating"},
	{L1: "Banking & Financial", L2: "Insurance"},
	{L1: "Facilities", L2: "Food Services"},
	{L1: "Facilities", L2: "Janitorial Services"},
	{L1: "Facilities", L2: "Security Services"},
	{L1: "Facilities", L2: "Uniform"},
	{L1: "HR", L2: "Employee Benefits"},
	{L1: "HR", L2: "Employee Recognition"},
	{L1: "HR", L2: "Recruitment Services"},
	{L1: "HR", L2: "Training"},
	{L1: "IT", L2: "Hardware", L3: "Accessories"},
	{L1: "IT", L2: "Hardware", L3: "Laptop"},
	{L1: "IT", L2: "Hardware", L3: "Mobile"},
	{L1: "IT", L2: "Software", L3: "Licenses Cost"},
	{L1: "IT", L2: "Software", L3: "Subscription"},
	{L1: "Professional Services", L2: "Audit Services"},
	{L1: "Professional Services", L2: "Consulting Services"},
	{L1: "Professional Services", L2: "Legal Services"},
	{L1: "Professional Services", L2: "Risk Consulting Services"},
	{L1: "T&E", L2: "Air"},
	{L1: "T&E", L2: "Food"},
	{L1: "T&E", L2: "GROUND TRANSPORTATION"},
	{L1: "T&E", L2: "Hotel"},
	{L1: "T&E", L2: "Parking fees"},
	{L1: "Unaddressable", L2: "Tax"},
	{L1: "Utilities", L2: "Power"},
	{L1: "Utilities", L2: "Water"},
}
